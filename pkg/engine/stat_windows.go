//go:build windows

package engine

import (
	"os"
	"syscall"
	"time"
)

// creationTime reads the creation timestamp from the file attribute data.
func creationTime(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		return time.Unix(0, st.CreationTime.Nanoseconds())
	}
	return info.ModTime()
}
