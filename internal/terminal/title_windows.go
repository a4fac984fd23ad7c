//go:build windows

package terminal

import (
	"fmt"
	"io"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32            = windows.NewLazySystemDLL("kernel32.dll")
	procSetConsoleTitle = kernel32.NewProc("SetConsoleTitleW")
)

// SetTitle sets the console window title. The console API is used directly,
// so out and info are only consulted to skip redirected sessions.
func SetTitle(_ io.Writer, info *Info, title string) error {
	if info == nil || !info.IsTTY {
		return nil
	}

	p, err := windows.UTF16PtrFromString(titleText(title))
	if err != nil {
		return fmt.Errorf("set console title: %w", err)
	}

	if err := procSetConsoleTitle.Find(); err != nil {
		return fmt.Errorf("set console title: %w", err)
	}

	r, _, callErr := procSetConsoleTitle.Call(uintptr(unsafe.Pointer(p)))
	if r == 0 {
		return fmt.Errorf("set console title: %w", callErr)
	}

	return nil
}
