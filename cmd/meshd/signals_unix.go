//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals are the signals that trigger the cooperative shutdown of
// spec.md §5: the global termination flag is set and the main loop exits
// after the current tick.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
