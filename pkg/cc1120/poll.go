package cc1120

import (
	"runtime"
	"time"
)

// PollUntil evaluates cond until it holds or timeout elapses and reports
// whether it held. cond is evaluated at least once. A zero interval spins.
func PollUntil(timeout, interval time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return true
		}
		if !time.Now().Before(deadline) {
			return false
		}
		if interval > 0 {
			time.Sleep(interval)
		} else {
			runtime.Gosched()
		}
	}
}
