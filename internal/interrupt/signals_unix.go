//go:build unix

package interrupt

import (
	"os"

	"golang.org/x/sys/unix"
)

// consoleSignals lists the signals a terminal can deliver to the foreground
// process. Only os.Interrupt requests a stop.
func consoleSignals() []os.Signal {
	return []os.Signal{os.Interrupt, unix.SIGTERM, unix.SIGHUP, unix.SIGQUIT}
}
