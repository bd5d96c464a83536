package globalban

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/model"
	"guardian-bot/utils"
	"guardian-bot/utils/database/banrecords"
)

// HandleApproveButton freezes the approve button with the approver's name and
// keeps revoke live. Approval is an audit acknowledgement, not a state change.
func (h *Handler) HandleApproveButton(s *discordgo.Session, i *discordgo.InteractionCreate, action model.Action) {
	if !h.requireBanAuthority(s, i) {
		return
	}

	approver := utils.InteractionUser(i)
	components := approvedRow(action.ID, approver.Username)

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     i.Message.Embeds,
			Components: components,
		},
	})
	if err != nil {
		if !utils.IsInteractionExpired(err) {
			log.Printf("Error updating approve message: %v", err)
			return
		}
		// Interaction token gone, fall back to a plain message edit.
		if _, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel:    i.ChannelID,
			ID:         i.Message.ID,
			Components: &components,
			Embeds:     &i.Message.Embeds,
		}); err != nil {
			log.Printf("Error editing approve message after expiry: %v", err)
		}
	}
}

// HandleRevokeButton undoes the global ban from the audit message.
func (h *Handler) HandleRevokeButton(s *discordgo.Session, i *discordgo.InteractionCreate, action model.Action) {
	if !h.requireBanAuthority(s, i) {
		return
	}

	deferred := true
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		if !utils.IsInteractionExpired(err) {
			log.Printf("Error deferring revoke update: %v", err)
			return
		}
		deferred = false
	}

	userID := action.ID
	removed, err := h.Store.RemoveBan(userID)
	if err != nil {
		log.Printf("Error updating ban registry on revoke: %v", err)
		return
	}

	var result FanOutResult
	if removed {
		linked, err := h.Store.LinkedGuilds()
		if err != nil {
			log.Printf("Error reading linked guilds on revoke: %v", err)
			return
		}
		result = FanOutUnban(s, linked, userID)
		if err := banrecords.MarkBanStatus(h.DB, userID, model.BanStatusRevoked); err != nil {
			log.Printf("Error marking ban records revoked: %v", err)
		}
	}

	if err := h.Store.DeletePendingBan(i.Message.ID); err != nil {
		log.Printf("Error clearing pending ban action: %v", err)
	}

	revoker := utils.InteractionUser(i)
	components := revokedRow(userID, revoker.Username)

	if deferred {
		if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Components: &components,
		}); err != nil {
			log.Printf("Error editing revoke message: %v", err)
		}
		summary := fmt.Sprintf("🔓 Revoked the global ban for <@%s>. Unbanned in %d server(s), %d failure(s).", userID, len(result.Success), len(result.Failed))
		utils.EphemeralFollowUp(s, i.Interaction, summary)
		return
	}

	if _, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    i.ChannelID,
		ID:         i.Message.ID,
		Components: &components,
		Embeds:     &i.Message.Embeds,
	}); err != nil {
		log.Printf("Error editing revoke message after expiry: %v", err)
	}
}

// HandleTerminalButton answers clicks on frozen buttons.
func (h *Handler) HandleTerminalButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	utils.SendSimpleResponse(s, i, "This action has already been processed.")
}

func (h *Handler) requireBanAuthority(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This action can only be used in a server.")
		return false
	}
	allowed, err := h.Perms.Allow(i.Member, i.GuildID, utils.CapabilityGlobalBan)
	if err != nil {
		log.Printf("Error checking global ban permission: %v", err)
		utils.SendErrorResponse(s, i, "Failed to check permissions.")
		return false
	}
	if !allowed {
		utils.SendErrorResponse(s, i, "You do not have permission to act on global bans.")
		return false
	}
	return true
}
