package globalban

import (
	"log"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/model"
	"guardian-bot/utils"
	"guardian-bot/utils/database/banrecords"
)

func (h *Handler) executeUnban(s *discordgo.Session, i *discordgo.InteractionCreate, p *pendingConfirm) {
	adminID := utils.InteractionUser(i).ID

	removed, err := h.Store.RemoveBan(p.targetID)
	if err != nil {
		log.Printf("Error updating ban registry: %v", err)
		h.editPrompt(s, i, "Failed to update the ban registry.")
		return
	}
	if !removed {
		h.editPrompt(s, i, "This user is not globally banned.")
		return
	}

	linked, err := h.Store.LinkedGuilds()
	if err != nil {
		log.Printf("Error reading linked guilds: %v", err)
		h.editPrompt(s, i, "Failed to read the linked guild list.")
		return
	}

	result := FanOutUnban(s, linked, p.targetID)
	target := &discordgo.User{ID: p.targetID, Username: p.targetName}
	embed := banResultEmbed(target, adminID, p.reason, result, true)

	content := ""
	empty := []discordgo.MessageComponent{}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &empty,
	}); err != nil {
		log.Printf("Error editing confirmation with result: %v", err)
	}

	if err := banrecords.MarkBanStatus(h.DB, p.targetID, model.BanStatusLifted); err != nil {
		log.Printf("Error marking ban records lifted: %v", err)
	}

	if h.Config.Logging.GlobalLinkLog != "" {
		if _, err := s.ChannelMessageSendEmbed(h.Config.Logging.GlobalLinkLog, embed); err != nil {
			log.Printf("Error posting unban audit message: %v", err)
		}
	}
}
