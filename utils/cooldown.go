package utils

import (
	"sync"
	"time"
)

var (
	banCooldowns = make(map[string]time.Time)
	banMutex     = &sync.Mutex{}
)

// CheckAndSetBanCooldown enforces the per-user global-ban cooldown. The
// bypass ID (configured operator) is exempt. If the user is still cooling
// down it returns the remaining wait and false; otherwise it stamps the user
// and returns true.
func CheckAndSetBanCooldown(userID string, window time.Duration, bypassID string) (time.Duration, bool) {
	if bypassID != "" && userID == bypassID {
		return 0, true
	}

	banMutex.Lock()
	defer banMutex.Unlock()

	if last, ok := banCooldowns[userID]; ok {
		if elapsed := time.Since(last); elapsed < window {
			return window - elapsed, false
		}
	}

	banCooldowns[userID] = time.Now()
	return 0, true
}

// CleanupBanCooldowns drops stamps older than an hour. Called periodically by
// the scheduler.
func CleanupBanCooldowns() {
	banMutex.Lock()
	defer banMutex.Unlock()

	for id, t := range banCooldowns {
		if time.Since(t) > 1*time.Hour {
			delete(banCooldowns, id)
		}
	}
}

// resetBanCooldowns is a test hook.
func resetBanCooldowns() {
	banMutex.Lock()
	defer banMutex.Unlock()
	banCooldowns = make(map[string]time.Time)
}
