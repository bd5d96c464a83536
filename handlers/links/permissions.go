package links

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/model"
	"guardian-bot/utils"
)

func requireAdministrator(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This command can only be used in a server.")
		return false
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		utils.SendErrorResponse(s, i, "Only server administrators can use this command.")
		return false
	}
	return true
}

// HandleSetLinkPermission processes /setlinkpermission subcommands, editing
// who may manage guild links.
func (h *Handler) HandleSetLinkPermission(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !requireAdministrator(s, i) {
		return
	}

	sub := i.ApplicationCommandData().Options[0]
	switch sub.Name {
	case "adduser":
		user := sub.Options[0].UserValue(s)
		if user == nil {
			utils.SendErrorResponse(s, i, "Could not resolve the user.")
			return
		}
		err := h.Store.UpdateLinkPermissions(func(perms *model.LinkPermissions) error {
			for _, id := range perms.AllowedUsers {
				if id == user.ID {
					return nil
				}
			}
			perms.AllowedUsers = append(perms.AllowedUsers, user.ID)
			return nil
		})
		if err != nil {
			log.Printf("Error updating link permissions: %v", err)
			utils.SendErrorResponse(s, i, "Failed to update link permissions.")
			return
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("✅ <@%s> can now manage guild links.", user.ID))

	case "removeuser":
		user := sub.Options[0].UserValue(s)
		if user == nil {
			utils.SendErrorResponse(s, i, "Could not resolve the user.")
			return
		}
		err := h.Store.UpdateLinkPermissions(func(perms *model.LinkPermissions) error {
			kept := perms.AllowedUsers[:0]
			for _, id := range perms.AllowedUsers {
				if id != user.ID {
					kept = append(kept, id)
				}
			}
			perms.AllowedUsers = kept
			return nil
		})
		if err != nil {
			log.Printf("Error updating link permissions: %v", err)
			utils.SendErrorResponse(s, i, "Failed to update link permissions.")
			return
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("✅ <@%s> can no longer manage guild links.", user.ID))

	case "addrole":
		role := sub.Options[0].RoleValue(s, i.GuildID)
		if role == nil {
			utils.SendErrorResponse(s, i, "Could not resolve the role.")
			return
		}
		err := h.Store.UpdateLinkPermissions(func(perms *model.LinkPermissions) error {
			for _, id := range perms.AllowedRoles[i.GuildID] {
				if id == role.ID {
					return nil
				}
			}
			perms.AllowedRoles[i.GuildID] = append(perms.AllowedRoles[i.GuildID], role.ID)
			return nil
		})
		if err != nil {
			log.Printf("Error updating link permissions: %v", err)
			utils.SendErrorResponse(s, i, "Failed to update link permissions.")
			return
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("✅ Members with <@&%s> can now manage guild links.", role.ID))

	case "removerole":
		role := sub.Options[0].RoleValue(s, i.GuildID)
		if role == nil {
			utils.SendErrorResponse(s, i, "Could not resolve the role.")
			return
		}
		err := h.Store.UpdateLinkPermissions(func(perms *model.LinkPermissions) error {
			kept := perms.AllowedRoles[i.GuildID][:0]
			for _, id := range perms.AllowedRoles[i.GuildID] {
				if id != role.ID {
					kept = append(kept, id)
				}
			}
			if len(kept) == 0 {
				delete(perms.AllowedRoles, i.GuildID)
			} else {
				perms.AllowedRoles[i.GuildID] = kept
			}
			return nil
		})
		if err != nil {
			log.Printf("Error updating link permissions: %v", err)
			utils.SendErrorResponse(s, i, "Failed to update link permissions.")
			return
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("✅ Members with <@&%s> can no longer manage guild links.", role.ID))

	case "list":
		perms, err := h.Store.LinkPermissions()
		if err != nil {
			log.Printf("Error reading link permissions: %v", err)
			utils.SendErrorResponse(s, i, "Failed to read link permissions.")
			return
		}
		var lines []string
		for _, id := range perms.AllowedUsers {
			lines = append(lines, fmt.Sprintf("User <@%s>", id))
		}
		for _, id := range perms.AllowedRoles[i.GuildID] {
			lines = append(lines, fmt.Sprintf("Role <@&%s>", id))
		}
		if len(lines) == 0 {
			utils.SendSimpleResponse(s, i, "No link permissions are configured for this server.")
			return
		}
		utils.SendSimpleResponse(s, i, "Link management permissions:\n"+strings.Join(lines, "\n"))

	default:
		utils.SendErrorResponse(s, i, "Unknown subcommand.")
	}
}

// HandleSetGlobalRole processes /setglobalrole, editing which roles in this
// guild may run global bans.
func (h *Handler) HandleSetGlobalRole(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !requireAdministrator(s, i) {
		return
	}

	sub := i.ApplicationCommandData().Options[0]
	role := sub.Options[0].RoleValue(s, i.GuildID)
	if role == nil {
		utils.SendErrorResponse(s, i, "Could not resolve the role.")
		return
	}

	switch sub.Name {
	case "add":
		added, err := h.Store.AddGlobalRole(i.GuildID, role.ID)
		if err != nil {
			log.Printf("Error adding global role: %v", err)
			utils.SendErrorResponse(s, i, "Failed to update the global role list.")
			return
		}
		if !added {
			utils.SendSimpleResponse(s, i, "That role is already authorized.")
			return
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("✅ Members with <@&%s> can now use global bans here.", role.ID))

	case "remove":
		removed, err := h.Store.RemoveGlobalRole(i.GuildID, role.ID)
		if err != nil {
			log.Printf("Error removing global role: %v", err)
			utils.SendErrorResponse(s, i, "Failed to update the global role list.")
			return
		}
		if !removed {
			utils.SendErrorResponse(s, i, "That role is not authorized.")
			return
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("✅ <@&%s> can no longer use global bans here.", role.ID))

	default:
		utils.SendErrorResponse(s, i, "Unknown subcommand.")
	}
}
