//go:build unix

package oserror

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// formatErrno renders errno as its strerror text followed by the symbolic
// name, e.g. "no such file or directory (ENOENT)".
func formatErrno(errno syscall.Errno) string {
	if name := unix.ErrnoName(errno); name != "" {
		return fmt.Sprintf("%s (%s)", errno.Error(), name)
	}

	return errno.Error()
}
