package memlock_test

import (
	"testing"

	"github.com/zhengfish/cloudvpn/pkg/memlock"
)

// TestLockUnlock exercises the real syscalls. mlockall requires either
// CAP_IPC_LOCK or a sufficient RLIMIT_MEMLOCK, which is not guaranteed in
// every test environment, so a permission failure is reported rather than
// failing the test outright.
func TestLockUnlock(t *testing.T) {
	if err := memlock.Lock(); err != nil {
		t.Skipf("mlockall not permitted in this environment: %v", err)
	}
	defer func() {
		if err := memlock.Unlock(); err != nil {
			t.Errorf("munlockall: %v", err)
		}
	}()
}
