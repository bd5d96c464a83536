package roles

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/utils"
)

// maxBulkRoles caps how many roles one /unassignmultiple call may touch.
const maxBulkRoles = 5

// HandleUnassignMultiple processes /unassignmultiple, stripping up to five
// roles from a member concurrently.
func (h *Handler) HandleUnassignMultiple(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.requireAssignAuthority(s, i) {
		return
	}

	options := i.ApplicationCommandData().Options
	target := options[0].UserValue(s)
	if target == nil {
		utils.SendErrorResponse(s, i, "Could not resolve the user.")
		return
	}

	var roles []*discordgo.Role
	for _, opt := range options[1:] {
		if role := opt.RoleValue(s, i.GuildID); role != nil {
			roles = append(roles, role)
		}
	}
	if len(roles) == 0 {
		utils.SendErrorResponse(s, i, "No roles given.")
		return
	}
	if len(roles) > maxBulkRoles {
		roles = roles[:maxBulkRoles]
	}

	for _, role := range roles {
		if ok, msg := h.checkHierarchy(s, i, role); !ok {
			utils.SendErrorResponse(s, i, msg)
			return
		}
	}

	member, err := s.GuildMember(i.GuildID, target.ID)
	if err != nil {
		utils.SendErrorResponse(s, i, "That user is not a member of this server.")
		return
	}

	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Error deferring bulk unassign response: %v", err)
		return
	}

	var (
		mu      sync.Mutex
		removed []string
		failed  []string
		skipped []string
		wg      sync.WaitGroup
	)

	for _, role := range roles {
		if !utils.HasRole(member, role.ID) {
			skipped = append(skipped, role.Name)
			continue
		}
		wg.Add(1)
		go func(role *discordgo.Role) {
			defer wg.Done()
			err := s.GuildMemberRoleRemove(i.GuildID, target.ID, role.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("Error removing role %s from user %s: %v", role.ID, target.ID, err)
				failed = append(failed, role.Name)
				return
			}
			removed = append(removed, role.Name)
		}(role)
	}
	wg.Wait()

	var parts []string
	if len(removed) > 0 {
		parts = append(parts, fmt.Sprintf("✅ Removed: %s", strings.Join(removed, ", ")))
	}
	if len(skipped) > 0 {
		parts = append(parts, fmt.Sprintf("➖ Not held: %s", strings.Join(skipped, ", ")))
	}
	if len(failed) > 0 {
		parts = append(parts, fmt.Sprintf("❌ Failed: %s", strings.Join(failed, ", ")))
	}
	utils.SendFollowUp(s, i.Interaction, strings.Join(parts, "\n"))

	details := fmt.Sprintf("<@%s> bulk-removed %d role(s) from <@%s> (%d failed)", i.Member.User.ID, len(removed), target.ID, len(failed))
	if err := utils.LogInfo(s, h.Config.RoleManagement.UnassignRole.LogChannel, "Roles", "UnassignMultiple", details); err != nil {
		log.Printf("Error sending bulk unassign log: %v", err)
	}
}
