//go:build !unix && !windows

package oserror

import "syscall"

func formatErrno(errno syscall.Errno) string {
	return errno.Error()
}
