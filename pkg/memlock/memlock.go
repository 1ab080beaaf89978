// Package memlock wraps mlockall, locking the daemon's address space into
// RAM so key material and route state are never swapped to disk. This is
// the startup step the original cloudvpn.cpp performs before any networking
// is initialized; a failure here maps to exit code 4 in spec.md §6.
package memlock

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Lock calls mlockall(MCL_CURRENT|MCL_FUTURE), locking both the process's
// current and future memory mappings.
func Lock() error {
	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		return fmt.Errorf("memlock: mlockall: %w", err)
	}
	return nil
}

// Unlock releases the lock acquired by Lock, called during the shutdown
// sequence after the tunnel interface and comm subsystem are torn down.
func Unlock() error {
	if err := unix.Munlockall(); err != nil {
		return fmt.Errorf("memlock: munlockall: %w", err)
	}
	return nil
}
