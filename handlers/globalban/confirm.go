package globalban

import (
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// confirmWindow is how long a confirm prompt stays clickable.
const confirmWindow = 30 * time.Second

// pendingConfirm is one outstanding ban or unban confirmation, keyed by the
// prompt interaction ID. Only the requester may consume it.
type pendingConfirm struct {
	requesterID string
	targetID    string
	targetName  string
	reason      string
	guildID     string
	unban       bool
	interaction *discordgo.Interaction
	timer       *time.Timer
}

type takeResult int

const (
	takeOK takeResult = iota
	takeNotFound
	takeWrongUser
)

// ConfirmManager holds confirmations that have been prompted but not yet
// confirmed, cancelled, or expired.
type ConfirmManager struct {
	mu      sync.Mutex
	pending map[string]*pendingConfirm
}

func NewConfirmManager() *ConfirmManager {
	return &ConfirmManager{pending: make(map[string]*pendingConfirm)}
}

var confirms = NewConfirmManager()

// Add registers a pending confirmation and arms its expiry timer. onExpire
// runs only if the prompt was never consumed.
func (m *ConfirmManager) Add(promptID string, p *pendingConfirm, onExpire func(*pendingConfirm)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.timer = time.AfterFunc(confirmWindow, func() {
		m.mu.Lock()
		expired, ok := m.pending[promptID]
		if ok {
			delete(m.pending, promptID)
		}
		m.mu.Unlock()
		if ok {
			onExpire(expired)
		}
	})
	m.pending[promptID] = p
}

// Take consumes a pending confirmation. Consumption is single-shot: a second
// click on either button of the same prompt finds nothing.
func (m *ConfirmManager) Take(promptID, clickerID string) (*pendingConfirm, takeResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pending[promptID]
	if !ok {
		return nil, takeNotFound
	}
	if p.requesterID != clickerID {
		return nil, takeWrongUser
	}

	p.timer.Stop()
	delete(m.pending, promptID)
	return p, takeOK
}

func expirePrompt(s *discordgo.Session, p *pendingConfirm) {
	content := "⏱️ Confirmation timed out. No action was taken."
	empty := []discordgo.MessageComponent{}
	_, err := s.InteractionResponseEdit(p.interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Components: &empty,
	})
	if err != nil {
		log.Printf("Error expiring confirmation prompt: %v", err)
	}
}
