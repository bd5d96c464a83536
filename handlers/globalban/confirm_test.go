package globalban

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newPending(requesterID string) *pendingConfirm {
	return &pendingConfirm{
		requesterID: requesterID,
		targetID:    "42",
		targetName:  "troublemaker",
		reason:      "spam",
		guildID:     "g1",
	}
}

func TestConfirmTakeIsSingleShot(t *testing.T) {
	m := NewConfirmManager()
	m.Add("prompt1", newPending("admin"), func(*pendingConfirm) {})

	p, result := m.Take("prompt1", "admin")
	assert.Equal(t, takeOK, result)
	assert.Equal(t, "42", p.targetID)

	_, result = m.Take("prompt1", "admin")
	assert.Equal(t, takeNotFound, result)
}

func TestConfirmRejectsOtherUsers(t *testing.T) {
	m := NewConfirmManager()
	m.Add("prompt1", newPending("admin"), func(*pendingConfirm) {})

	_, result := m.Take("prompt1", "intruder")
	assert.Equal(t, takeWrongUser, result)

	// The entry survives a rejected click.
	_, result = m.Take("prompt1", "admin")
	assert.Equal(t, takeOK, result)
}

func TestConfirmUnknownPrompt(t *testing.T) {
	m := NewConfirmManager()
	_, result := m.Take("missing", "admin")
	assert.Equal(t, takeNotFound, result)
}

func TestConfirmExpiryFiresOnceAndOnlyIfUnconsumed(t *testing.T) {
	m := NewConfirmManager()

	expired := make(chan string, 2)
	m.Add("slow", newPending("admin"), func(p *pendingConfirm) {
		expired <- "slow"
	})
	m.Add("taken", newPending("admin"), func(p *pendingConfirm) {
		expired <- "taken"
	})

	// Consuming a prompt must disarm its timer.
	_, result := m.Take("taken", "admin")
	assert.Equal(t, takeOK, result)

	// Force the remaining timer to fire now.
	m.mu.Lock()
	m.pending["slow"].timer.Reset(time.Millisecond)
	m.mu.Unlock()

	select {
	case id := <-expired:
		assert.Equal(t, "slow", id)
	case <-time.After(time.Second):
		t.Fatal("expiry callback never fired")
	}

	_, result = m.Take("slow", "admin")
	assert.Equal(t, takeNotFound, result)

	select {
	case id := <-expired:
		t.Fatalf("unexpected expiry for %q", id)
	case <-time.After(50 * time.Millisecond):
	}
}
