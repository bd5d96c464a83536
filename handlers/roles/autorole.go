package roles

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/model"
	"guardian-bot/utils"
)

// HandleSetupAutoRole processes /setupautorole subcommands.
func (h *Handler) HandleSetupAutoRole(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This command can only be used in a server.")
		return
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		utils.SendErrorResponse(s, i, "Only server administrators can configure the auto role.")
		return
	}

	sub := i.ApplicationCommandData().Options[0]
	switch sub.Name {
	case "set":
		role := sub.Options[0].RoleValue(s, i.GuildID)
		if role == nil {
			utils.SendErrorResponse(s, i, "Could not resolve the role.")
			return
		}
		if role.Managed || role.ID == i.GuildID {
			utils.SendErrorResponse(s, i, "That role cannot be granted automatically.")
			return
		}
		if ok, msg := h.checkHierarchy(s, i, role); !ok {
			utils.SendErrorResponse(s, i, msg)
			return
		}

		err := h.Store.SetAutoRole(i.GuildID, model.AutoRoleConfig{
			RoleID:   role.ID,
			RoleName: role.Name,
			Enabled:  true,
			SetupBy:  i.Member.User.ID,
		})
		if err != nil {
			log.Printf("Error saving auto role config: %v", err)
			utils.SendErrorResponse(s, i, "Failed to save the auto role.")
			return
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("✅ New members will automatically receive <@&%s>.", role.ID))

	case "disable":
		if err := h.Store.DeleteAutoRole(i.GuildID); err != nil {
			log.Printf("Error deleting auto role config: %v", err)
			utils.SendErrorResponse(s, i, "Failed to disable the auto role.")
			return
		}
		utils.SendSimpleResponse(s, i, "✅ Auto role disabled.")

	case "status":
		cfg, ok, err := h.Store.AutoRole(i.GuildID)
		if err != nil {
			log.Printf("Error reading auto role config: %v", err)
			utils.SendErrorResponse(s, i, "Failed to read the auto role.")
			return
		}
		if !ok || !cfg.Enabled {
			utils.SendSimpleResponse(s, i, "No auto role is configured.")
			return
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("Auto role: <@&%s> (set by <@%s>)", cfg.RoleID, cfg.SetupBy))

	default:
		utils.SendErrorResponse(s, i, "Unknown subcommand.")
	}
}

// HandleMemberAddAutoRole grants the configured auto role on join.
func (h *Handler) HandleMemberAddAutoRole(s *discordgo.Session, e *discordgo.GuildMemberAdd) {
	if e.User == nil || e.User.Bot {
		return
	}

	cfg, ok, err := h.Store.AutoRole(e.GuildID)
	if err != nil {
		log.Printf("Error reading auto role config: %v", err)
		return
	}
	if !ok || !cfg.Enabled {
		return
	}

	if err := s.GuildMemberRoleAdd(e.GuildID, e.User.ID, cfg.RoleID); err != nil {
		log.Printf("Error granting auto role %s to user %s: %v", cfg.RoleID, e.User.ID, err)
	}
}
