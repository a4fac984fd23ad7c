// Package oserror turns operating system errors into the numeric code and
// human-readable text shown to users when a program cannot be started.
package oserror

import (
	"errors"
	"strings"
	"syscall"
)

// Describe returns the OS error code carried by err and a readable message
// for it. Errors without an OS code report code 0 and err's own text. The
// message is only empty when err is nil.
func Describe(err error) (uint32, string) {
	if err == nil {
		return 0, ""
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		msg := strings.TrimSpace(formatErrno(errno))
		if msg == "" {
			msg = errno.Error()
		}

		return uint32(errno), msg
	}

	return 0, strings.TrimSpace(err.Error())
}
