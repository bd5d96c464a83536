package roles

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/utils"
)

// HandleRoleAll processes /roleall, granting or removing one role for every
// human member of the guild. Member listing is paginated at the API limit.
func (h *Handler) HandleRoleAll(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This command can only be used in a server.")
		return
	}

	allowed, err := h.Perms.Allow(i.Member, i.GuildID, utils.CapabilityRoleAll)
	if err != nil {
		log.Printf("Error checking roleall permission: %v", err)
		utils.SendErrorResponse(s, i, "Failed to check permissions.")
		return
	}
	if !allowed {
		utils.SendErrorResponse(s, i, "You do not have permission to run server-wide role sweeps.")
		return
	}

	options := i.ApplicationCommandData().Options
	role := options[0].RoleValue(s, i.GuildID)
	remove := false
	if len(options) > 1 {
		remove = options[1].BoolValue()
	}
	if role == nil {
		utils.SendErrorResponse(s, i, "Could not resolve the role.")
		return
	}

	if ok, msg := h.checkHierarchy(s, i, role); !ok {
		utils.SendErrorResponse(s, i, msg)
		return
	}

	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Error deferring roleall response: %v", err)
		return
	}

	changed, failed, err := sweepRole(s, i.GuildID, role.ID, remove)
	if err != nil {
		log.Printf("Error sweeping role %s: %v", role.ID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to list the server members.")
		return
	}

	verb := "Granted"
	if remove {
		verb = "Removed"
	}
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("✅ %s <@&%s> for %d member(s), %d failure(s).", verb, role.ID, changed, failed))
}

func sweepRole(s *discordgo.Session, guildID, roleID string, remove bool) (changed, failed int, err error) {
	after := ""
	for {
		members, err := s.GuildMembers(guildID, after, 1000)
		if err != nil {
			return changed, failed, err
		}
		if len(members) == 0 {
			return changed, failed, nil
		}

		for _, member := range members {
			after = member.User.ID
			if member.User.Bot {
				continue
			}
			has := utils.HasRole(member, roleID)
			if remove == !has {
				continue
			}
			var opErr error
			if remove {
				opErr = s.GuildMemberRoleRemove(guildID, member.User.ID, roleID)
			} else {
				opErr = s.GuildMemberRoleAdd(guildID, member.User.ID, roleID)
			}
			if opErr != nil {
				log.Printf("Error updating role %s for member %s: %v", roleID, member.User.ID, opErr)
				failed++
				continue
			}
			changed++
		}

		if len(members) < 1000 {
			return changed, failed, nil
		}
	}
}
