package roles

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/model"
	"guardian-bot/utils"
)

// HandleSetupRoleRequest processes /setuprequestrole, pointing role requests
// at an approval channel and naming who may act on them.
func (h *Handler) HandleSetupRoleRequest(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This command can only be used in a server.")
		return
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		utils.SendErrorResponse(s, i, "Only server administrators can configure role requests.")
		return
	}

	options := i.ApplicationCommandData().Options
	channel := options[0].ChannelValue(s)
	if channel == nil {
		utils.SendErrorResponse(s, i, "Could not resolve the channel.")
		return
	}

	var approvers []string
	for _, opt := range options[1:] {
		if role := opt.RoleValue(s, i.GuildID); role != nil {
			approvers = append(approvers, role.ID)
		}
	}
	if len(approvers) == 0 {
		utils.SendErrorResponse(s, i, "At least one approver role is required.")
		return
	}

	err := h.Store.SetRoleRequestConfig(i.GuildID, model.RoleRequestConfig{
		ChannelID:     channel.ID,
		ApproverRoles: approvers,
	})
	if err != nil {
		log.Printf("Error saving role request config: %v", err)
		utils.SendErrorResponse(s, i, "Failed to save the role request setup.")
		return
	}

	utils.SendSimpleResponse(s, i, fmt.Sprintf("✅ Role requests will be posted to <#%s>.", channel.ID))
}

// HandleRequestRole processes /requestrole, posting an approval prompt.
func (h *Handler) HandleRequestRole(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This command can only be used in a server.")
		return
	}

	cfg, ok, err := h.Store.RoleRequestConfig(i.GuildID)
	if err != nil {
		log.Printf("Error reading role request config: %v", err)
		utils.SendErrorResponse(s, i, "Failed to read the role request setup.")
		return
	}
	if !ok {
		utils.SendErrorResponse(s, i, "Role requests are not set up in this server.")
		return
	}

	role := i.ApplicationCommandData().Options[0].RoleValue(s, i.GuildID)
	if role == nil {
		utils.SendErrorResponse(s, i, "Could not resolve the role.")
		return
	}
	if role.Managed || role.ID == i.GuildID {
		utils.SendErrorResponse(s, i, "That role cannot be requested.")
		return
	}
	if utils.HasRole(i.Member, role.ID) {
		utils.SendErrorResponse(s, i, "You already have that role.")
		return
	}

	requester := i.Member.User
	embed := &discordgo.MessageEmbed{
		Title: "📨 Role Request",
		Color: 3447003,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s> (`%s`)", requester.ID, requester.ID), Inline: true},
			{Name: "Role", Value: fmt.Sprintf("<@&%s>", role.ID), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	_, err = s.ChannelMessageSendComplex(cfg.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Approve",
						Style:    discordgo.SuccessButton,
						CustomID: model.Action{Kind: model.ActionApproveRoleRequest, RoleID: role.ID, ID: requester.ID}.CustomID(),
					},
					discordgo.Button{
						Label:    "Deny",
						Style:    discordgo.DangerButton,
						CustomID: model.Action{Kind: model.ActionDenyRoleRequest, RoleID: role.ID, ID: requester.ID}.CustomID(),
					},
				},
			},
		},
	})
	if err != nil {
		log.Printf("Error posting role request: %v", err)
		utils.SendErrorResponse(s, i, "Failed to post the request.")
		return
	}

	utils.SendSimpleResponse(s, i, fmt.Sprintf("📨 Your request for <@&%s> was sent for approval.", role.ID))
}

// HandleApproveRoleRequest grants the requested role after hierarchy checks.
func (h *Handler) HandleApproveRoleRequest(s *discordgo.Session, i *discordgo.InteractionCreate, action model.Action) {
	if !h.requireRequestApprover(s, i) {
		return
	}

	role, err := utils.FindRole(s, i.GuildID, action.RoleID)
	if err != nil {
		log.Printf("Error resolving requested role: %v", err)
		utils.SendErrorResponse(s, i, "Failed to resolve the requested role.")
		return
	}
	if role == nil {
		utils.SendErrorResponse(s, i, "The requested role no longer exists.")
		return
	}
	if ok, msg := h.checkHierarchy(s, i, role); !ok {
		utils.SendErrorResponse(s, i, msg)
		return
	}

	if err := s.GuildMemberRoleAdd(i.GuildID, action.ID, role.ID); err != nil {
		log.Printf("Error granting requested role %s to user %s: %v", role.ID, action.ID, err)
		utils.SendErrorResponse(s, i, "Failed to grant the role. The user may have left the server.")
		return
	}

	approver := utils.InteractionUser(i)
	h.freezeRequest(s, i, action, fmt.Sprintf("Approved By: %s", approver.Username), discordgo.SuccessButton)

	details := fmt.Sprintf("<@%s> approved <@&%s> for <@%s>", approver.ID, role.ID, action.ID)
	if err := utils.LogInfo(s, h.Config.RoleManagement.RoleRequest.LogChannel, "Roles", "RequestApproved", details); err != nil {
		log.Printf("Error sending role request log: %v", err)
	}
}

// HandleDenyRoleRequest freezes the prompt without granting anything.
func (h *Handler) HandleDenyRoleRequest(s *discordgo.Session, i *discordgo.InteractionCreate, action model.Action) {
	if !h.requireRequestApprover(s, i) {
		return
	}

	denier := utils.InteractionUser(i)
	h.freezeRequest(s, i, action, fmt.Sprintf("Denied By: %s", denier.Username), discordgo.DangerButton)

	details := fmt.Sprintf("<@%s> denied <@&%s> for <@%s>", denier.ID, action.RoleID, action.ID)
	if err := utils.LogInfo(s, h.Config.RoleManagement.RoleRequest.LogChannel, "Roles", "RequestDenied", details); err != nil {
		log.Printf("Error sending role request log: %v", err)
	}
}

func (h *Handler) requireRequestApprover(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This action can only be used in a server.")
		return false
	}
	allowed, err := h.Perms.Allow(i.Member, i.GuildID, utils.CapabilityApproveRoleRequest)
	if err != nil {
		log.Printf("Error checking role request permission: %v", err)
		utils.SendErrorResponse(s, i, "Failed to check permissions.")
		return false
	}
	if !allowed {
		utils.SendErrorResponse(s, i, "You do not have permission to act on role requests.")
		return false
	}
	return true
}

func (h *Handler) freezeRequest(s *discordgo.Session, i *discordgo.InteractionCreate, action model.Action, label string, style discordgo.ButtonStyle) {
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    label,
					Style:    style,
					CustomID: model.Action{Kind: model.ActionRoleReqDone, RoleID: action.RoleID, ID: action.ID}.CustomID(),
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
			log.Printf("Error freezing role request message: %v", err)
			return
		}
		if _, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel:    i.ChannelID,
			ID:         i.Message.ID,
			Components: &components,
			Embeds:     &i.Message.Embeds,
		}); err != nil {
			log.Printf("Error freezing role request message after expiry: %v", err)
		}
	}
}
