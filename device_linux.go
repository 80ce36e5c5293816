//go:build linux

package ssfs

import (
	"os"

	"golang.org/x/sys/unix"
)

func preallocate(f *os.File, size int64) error {
	if err := unix.Fallocate(int(f.Fd()), 0, 0, size); err == nil {
		return nil
	}
	// not every filesystem supports fallocate
	return f.Truncate(size)
}
