//go:build windows

package oserror

import (
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

const (
	langNeutral    = 0x00
	sublangDefault = 0x01

	messageBufferSize = 2048
)

// makeLangID mirrors the MAKELANGID macro.
func makeLangID(primary, sub uint32) uint32 {
	return sub<<10 | primary
}

// formatErrno asks the system message table for errno's text in the user's
// default language.
func formatErrno(errno syscall.Errno) string {
	buf := make([]uint16, messageBufferSize)
	flags := uint32(windows.FORMAT_MESSAGE_FROM_SYSTEM | windows.FORMAT_MESSAGE_IGNORE_INSERTS)

	n, err := windows.FormatMessage(flags, 0, uint32(errno), makeLangID(langNeutral, sublangDefault), buf, nil)
	if err != nil || n == 0 {
		return errno.Error()
	}

	return strings.TrimSpace(windows.UTF16ToString(buf[:n]))
}
