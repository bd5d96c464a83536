package altcheck

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/model"
	"guardian-bot/store"
	"guardian-bot/utils"
)

type Handler struct {
	Config *model.Config
	Store  *store.Store
	Perms  utils.Permissions
}

// HandleMemberAdd screens every join against the account-age threshold and
// posts a review prompt for accounts below it.
func (h *Handler) HandleMemberAdd(s *discordgo.Session, e *discordgo.GuildMemberAdd) {
	if e.User == nil || e.User.Bot {
		return
	}
	if h.Config.AltChecker.LogChannel == "" {
		return
	}

	now := time.Now()
	age, err := AccountAge(e.User.ID, now)
	if err != nil {
		log.Printf("Error computing account age for user %s: %v", e.User.ID, err)
		return
	}
	if !ShouldFlag(age, h.Config.AltChecker.AccountAgeDays) {
		return
	}

	ageDays := int(age.Hours() / 24)
	if err := Flag(h.Store, e.GuildID, e.User.ID, ageDays, now); err != nil {
		log.Printf("Error recording pending alt check for user %s: %v", e.User.ID, err)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "🔍 New Account Flagged",
		Color: 15105570,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s> (`%s`)", e.User.ID, e.User.ID), Inline: true},
			{Name: "Account Age", Value: fmt.Sprintf("%d day(s)", ageDays), Inline: true},
			{Name: "Threshold", Value: fmt.Sprintf("%d day(s)", h.Config.AltChecker.AccountAgeDays), Inline: true},
		},
		Timestamp: now.Format(time.RFC3339),
	}

	_, err = s.ChannelMessageSendComplex(h.Config.AltChecker.LogChannel, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Approve",
						Style:    discordgo.SuccessButton,
						CustomID: model.Action{Kind: model.ActionApproveAlt, ID: e.User.ID}.CustomID(),
					},
					discordgo.Button{
						Label:    "Deny",
						Style:    discordgo.DangerButton,
						CustomID: model.Action{Kind: model.ActionDenyAlt, ID: e.User.ID}.CustomID(),
					},
				},
			},
		},
	})
	if err != nil {
		log.Printf("Error posting alt review prompt: %v", err)
	}
}

// HandleApproveButton clears the review without touching the member.
func (h *Handler) HandleApproveButton(s *discordgo.Session, i *discordgo.InteractionCreate, action model.Action) {
	if !h.requireReviewer(s, i) {
		return
	}

	if err := Approve(h.Store, action.ID); err != nil {
		log.Printf("Error approving alt check for user %s: %v", action.ID, err)
		utils.SendErrorResponse(s, i, "Failed to clear the review.")
		return
	}

	reviewer := utils.InteractionUser(i)
	h.freezeReview(s, i, action.ID, fmt.Sprintf("Approved By: %s", reviewer.Username), discordgo.SuccessButton)
}

// HandleDenyButton confines the member to the denied role and clears the
// review.
func (h *Handler) HandleDenyButton(s *discordgo.Session, i *discordgo.InteractionCreate, action model.Action) {
	if !h.requireReviewer(s, i) {
		return
	}

	pending, ok, err := h.Store.PendingAltCheck(action.ID)
	if err != nil {
		log.Printf("Error reading pending alt check: %v", err)
		utils.SendErrorResponse(s, i, "Failed to read the review entry.")
		return
	}
	if !ok {
		utils.SendErrorResponse(s, i, "This review was already handled.")
		return
	}

	if err := Deny(s, h.Store, pending.GuildID, action.ID, h.Config.AltChecker.DeniedRole); err != nil {
		log.Printf("Error denying flagged user %s: %v", action.ID, err)
		utils.SendErrorResponse(s, i, "Failed to apply the denied role.")
		return
	}

	reviewer := utils.InteractionUser(i)
	h.freezeReview(s, i, action.ID, fmt.Sprintf("Denied By: %s", reviewer.Username), discordgo.DangerButton)
}

func (h *Handler) requireReviewer(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This action can only be used in a server.")
		return false
	}
	allowed, err := h.Perms.Allow(i.Member, i.GuildID, utils.CapabilityAltReview)
	if err != nil {
		log.Printf("Error checking alt review permission: %v", err)
		utils.SendErrorResponse(s, i, "Failed to check permissions.")
		return false
	}
	if !allowed {
		utils.SendErrorResponse(s, i, "You do not have permission to review flagged accounts.")
		return false
	}
	return true
}

// freezeReview swaps the review buttons for a single disabled verdict button.
func (h *Handler) freezeReview(s *discordgo.Session, i *discordgo.InteractionCreate, userID, label string, style discordgo.ButtonStyle) {
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    label,
					Style:    style,
					CustomID: model.Action{Kind: model.ActionAltDone, ID: userID}.CustomID(),
					Disabled: true,
				},
			},
		},
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     i.Message.Embeds,
			Components: components,
		},
	})
	if err != nil {
		if !utils.IsInteractionExpired(err) {
			log.Printf("Error freezing alt review message: %v", err)
			return
		}
		if _, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel:    i.ChannelID,
			ID:         i.Message.ID,
			Components: &components,
			Embeds:     &i.Message.Embeds,
		}); err != nil {
			log.Printf("Error freezing alt review message after expiry: %v", err)
		}
	}
}
