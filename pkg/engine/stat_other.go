//go:build !darwin && !windows

package engine

import (
	"os"
	"time"
)

// creationTime falls back to the modification time: os.FileInfo does not
// surface a birth timestamp on this platform.
func creationTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
