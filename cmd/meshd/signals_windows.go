//go:build windows

package main

import "os"

// shutdownSignals are the signals that trigger the cooperative shutdown of
// spec.md §5. Windows has no SIGTERM; os.Interrupt is delivered for
// Ctrl-Break on a console process.
var shutdownSignals = []os.Signal{os.Interrupt}
