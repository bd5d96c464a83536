package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBanCooldownBlocksSecondUse(t *testing.T) {
	resetBanCooldowns()

	_, ok := CheckAndSetBanCooldown("user1", 10*time.Minute, "")
	assert.True(t, ok)

	remaining, ok := CheckAndSetBanCooldown("user1", 10*time.Minute, "")
	assert.False(t, ok)
	assert.Greater(t, remaining, time.Duration(0))
	assert.LessOrEqual(t, remaining, 10*time.Minute)
}

func TestBanCooldownIsPerUser(t *testing.T) {
	resetBanCooldowns()

	_, ok := CheckAndSetBanCooldown("user1", 10*time.Minute, "")
	assert.True(t, ok)

	_, ok = CheckAndSetBanCooldown("user2", 10*time.Minute, "")
	assert.True(t, ok)
}

func TestBanCooldownBypass(t *testing.T) {
	resetBanCooldowns()

	for n := 0; n < 3; n++ {
		_, ok := CheckAndSetBanCooldown("operator", 10*time.Minute, "operator")
		assert.True(t, ok)
	}

	// The bypass never stamps the map, so cleanup has nothing to do.
	CleanupBanCooldowns()
	_, ok := CheckAndSetBanCooldown("operator", 10*time.Minute, "operator")
	assert.True(t, ok)
}
