// Package roles covers manual role administration: single and bulk grants,
// server-wide sweeps, member-initiated requests, and verification.
package roles

import (
	"fmt"
	"log"

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

// checkHierarchy verifies that both the acting member and the bot itself sit
// above the role being granted or removed.
func (h *Handler) checkHierarchy(s *discordgo.Session, i *discordgo.InteractionCreate, role *discordgo.Role) (bool, string) {
	actorTop, err := utils.HighestRolePosition(s, i.GuildID, i.Member)
	if err != nil {
		log.Printf("Error resolving actor role position: %v", err)
		return false, "Failed to resolve role hierarchy."
	}
	if role.Position >= actorTop {
		return false, "You cannot manage a role equal to or above your highest role."
	}

	botMember, err := s.GuildMember(i.GuildID, s.State.User.ID)
	if err != nil {
		log.Printf("Error fetching bot member: %v", err)
		return false, "Failed to resolve the bot's role hierarchy."
	}
	botTop, err := utils.HighestRolePosition(s, i.GuildID, botMember)
	if err != nil {
		log.Printf("Error resolving bot role position: %v", err)
		return false, "Failed to resolve the bot's role hierarchy."
	}
	if role.Position >= botTop {
		return false, "The bot cannot manage a role equal to or above its highest role."
	}
	return true, ""
}

func (h *Handler) requireAssignAuthority(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This command can only be used in a server.")
		return false
	}
	allowed, err := h.Perms.Allow(i.Member, i.GuildID, utils.CapabilityAssignRoles)
	if err != nil {
		log.Printf("Error checking assign permission: %v", err)
		utils.SendErrorResponse(s, i, "Failed to check permissions.")
		return false
	}
	if !allowed {
		utils.SendErrorResponse(s, i, "You do not have permission to manage roles.")
		return false
	}
	return true
}

// HandleAssignRole processes /assignrole.
func (h *Handler) HandleAssignRole(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.requireAssignAuthority(s, i) {
		return
	}

	options := i.ApplicationCommandData().Options
	target := options[0].UserValue(s)
	role := options[1].RoleValue(s, i.GuildID)
	if target == nil || role == nil {
		utils.SendErrorResponse(s, i, "Could not resolve the user or role.")
		return
	}

	if ok, msg := h.checkHierarchy(s, i, role); !ok {
		utils.SendErrorResponse(s, i, msg)
		return
	}

	member, err := s.GuildMember(i.GuildID, target.ID)
	if err != nil {
		utils.SendErrorResponse(s, i, "That user is not a member of this server.")
		return
	}
	if utils.HasRole(member, role.ID) {
		utils.SendErrorResponse(s, i, fmt.Sprintf("<@%s> already has <@&%s>.", target.ID, role.ID))
		return
	}

	if err := s.GuildMemberRoleAdd(i.GuildID, target.ID, role.ID); err != nil {
		log.Printf("Error assigning role %s to user %s: %v", role.ID, target.ID, err)
		utils.SendErrorResponse(s, i, "Failed to assign the role.")
		return
	}

	utils.SendSimpleResponse(s, i, fmt.Sprintf("✅ Assigned <@&%s> to <@%s>.", role.ID, target.ID))

	details := fmt.Sprintf("<@%s> assigned <@&%s> to <@%s>", i.Member.User.ID, role.ID, target.ID)
	if err := utils.LogInfo(s, h.Config.RoleManagement.AssignRole.LogChannel, "Roles", "Assign", details); err != nil {
		log.Printf("Error sending assign log: %v", err)
	}
}

// HandleUnassignRole processes /unassignrole.
func (h *Handler) HandleUnassignRole(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.requireAssignAuthority(s, i) {
		return
	}

	options := i.ApplicationCommandData().Options
	target := options[0].UserValue(s)
	role := options[1].RoleValue(s, i.GuildID)
	if target == nil || role == nil {
		utils.SendErrorResponse(s, i, "Could not resolve the user or role.")
		return
	}

	if ok, msg := h.checkHierarchy(s, i, role); !ok {
		utils.SendErrorResponse(s, i, msg)
		return
	}

	member, err := s.GuildMember(i.GuildID, target.ID)
	if err != nil {
		utils.SendErrorResponse(s, i, "That user is not a member of this server.")
		return
	}
	if !utils.HasRole(member, role.ID) {
		utils.SendErrorResponse(s, i, fmt.Sprintf("<@%s> does not have <@&%s>.", target.ID, role.ID))
		return
	}

	if err := s.GuildMemberRoleRemove(i.GuildID, target.ID, role.ID); err != nil {
		log.Printf("Error removing role %s from user %s: %v", role.ID, target.ID, err)
		utils.SendErrorResponse(s, i, "Failed to remove the role.")
		return
	}

	utils.SendSimpleResponse(s, i, fmt.Sprintf("✅ Removed <@&%s> from <@%s>.", role.ID, target.ID))

	details := fmt.Sprintf("<@%s> removed <@&%s> from <@%s>", i.Member.User.ID, role.ID, target.ID)
	if err := utils.LogInfo(s, h.Config.RoleManagement.UnassignRole.LogChannel, "Roles", "Unassign", details); err != nil {
		log.Printf("Error sending unassign log: %v", err)
	}
}
