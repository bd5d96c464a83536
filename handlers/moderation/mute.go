// Package moderation holds direct moderation commands outside the global ban
// workflow.
package moderation

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/model"
	"guardian-bot/utils"
)

// Timeout bounds, in minutes. The upper bound is the platform's 28-day cap.
const (
	minMuteMinutes = 1
	maxMuteMinutes = 40320
)

type Handler struct {
	Config *model.Config
	Perms  utils.Permissions
}

// HandleMute processes /mute, applying a communication timeout.
func (h *Handler) HandleMute(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This command can only be used in a server.")
		return
	}

	allowed, err := h.Perms.Allow(i.Member, i.GuildID, utils.CapabilityMute)
	if err != nil {
		log.Printf("Error checking mute permission: %v", err)
		utils.SendErrorResponse(s, i, "Failed to check permissions.")
		return
	}
	if !allowed {
		utils.SendErrorResponse(s, i, "You do not have permission to mute members.")
		return
	}

	options := i.ApplicationCommandData().Options
	target := options[0].UserValue(s)
	minutes := int(options[1].IntValue())
	reason := "No reason given"
	if len(options) > 2 {
		reason = options[2].StringValue()
	}

	if target == nil {
		utils.SendErrorResponse(s, i, "Could not resolve the user.")
		return
	}
	if target.ID == i.Member.User.ID {
		utils.SendErrorResponse(s, i, "You cannot mute yourself.")
		return
	}
	if target.Bot {
		utils.SendErrorResponse(s, i, "Bots cannot be muted.")
		return
	}
	if minutes < minMuteMinutes || minutes > maxMuteMinutes {
		utils.SendErrorResponse(s, i, fmt.Sprintf("Duration must be between %d and %d minutes.", minMuteMinutes, maxMuteMinutes))
		return
	}

	until := time.Now().Add(time.Duration(minutes) * time.Minute)
	if err := s.GuildMemberTimeout(i.GuildID, target.ID, &until); err != nil {
		log.Printf("Error muting user %s: %v", target.ID, err)
		utils.SendErrorResponse(s, i, "Failed to mute the user.")
		return
	}

	utils.SendSimpleResponse(s, i, fmt.Sprintf("🔇 Muted <@%s> until <t:%d:f>.", target.ID, until.Unix()))

	// Best effort, the member may have DMs closed.
	if channel, err := s.UserChannelCreate(target.ID); err == nil {
		embed := &discordgo.MessageEmbed{
			Title: "🔇 You Have Been Muted",
			Color: 15105570,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Duration", Value: fmt.Sprintf("%d minute(s)", minutes), Inline: true},
				{Name: "Until", Value: fmt.Sprintf("<t:%d:f>", until.Unix()), Inline: true},
				{Name: "Reason", Value: reason},
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
		if _, err := s.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
			log.Printf("Error sending mute DM to user %s: %v", target.ID, err)
		}
	}

	details := fmt.Sprintf("<@%s> muted <@%s> for %d minute(s). Reason: %s", i.Member.User.ID, target.ID, minutes, reason)
	if err := utils.LogInfo(s, h.Config.Moderation.Mute.LogChannel, "Moderation", "Mute", details); err != nil {
		log.Printf("Error sending mute log: %v", err)
	}
}
