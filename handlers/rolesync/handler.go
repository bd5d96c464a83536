package rolesync

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/model"
)

type Handler struct {
	Config *model.Config
}

// HandleMemberUpdate mirrors role changes between the paired guilds. Needs
// session state enabled so BeforeUpdate carries the previous role snapshot.
func (h *Handler) HandleMemberUpdate(s *discordgo.Session, e *discordgo.GuildMemberUpdate) {
	cfg := h.Config.RoleSync
	if !cfg.Enabled || e.User == nil || e.User.Bot {
		return
	}

	var counterpart string
	switch e.GuildID {
	case cfg.SourceGuildID:
		counterpart = cfg.TargetGuildID
	case cfg.TargetGuildID:
		counterpart = cfg.SourceGuildID
	default:
		return
	}

	if e.BeforeUpdate == nil {
		// No previous snapshot, cannot compute a delta.
		return
	}

	delta := Diff(e.BeforeUpdate.Roles, e.Roles)
	if len(delta.Added) == 0 && len(delta.Removed) == 0 {
		return
	}

	changes, err := Sync(s, Mapping(cfg.RoleMappings), counterpart, e.User.ID, delta)
	if err != nil {
		log.Printf("Error syncing roles for user %s: %v", e.User.ID, err)
	}
	if len(changes) == 0 {
		return
	}

	h.logChanges(s, e.User, e.GuildID, changes)
}

func (h *Handler) logChanges(s *discordgo.Session, user *discordgo.User, originGuildID string, changes []Change) {
	if h.Config.RoleSync.LogChannelID == "" {
		return
	}

	var lines []string
	for _, c := range changes {
		verb := "Removed"
		if c.Added {
			verb = "Granted"
		}
		lines = append(lines, fmt.Sprintf("%s <@&%s> in `%s`", verb, c.RoleID, c.GuildID))
	}

	embed := &discordgo.MessageEmbed{
		Title: "🔁 Roles Synced",
		Color: 3447003,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("%s (`%s`)", user.Username, user.ID), Inline: true},
			{Name: "Origin Guild", Value: fmt.Sprintf("`%s`", originGuildID), Inline: true},
			{Name: "Changes", Value: strings.Join(lines, "\n")},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if _, err := s.ChannelMessageSendEmbed(h.Config.RoleSync.LogChannelID, embed); err != nil {
		log.Printf("Error sending role sync log: %v", err)
	}
}
