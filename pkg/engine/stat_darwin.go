//go:build darwin

package engine

import (
	"os"
	"syscall"
	"time"
)

// creationTime reads the birth timestamp from the underlying stat data.
func creationTime(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
	}
	return info.ModTime()
}
