package utils

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/model"
	"guardian-bot/store"
)

// Capability names one privileged thing an actor can be allowed to do. Every
// handler routes its authorization check through Permissions.Allow so the
// role lookups live in one place.
type Capability int

const (
	CapabilityGlobalBan Capability = iota
	CapabilityManageLinks
	CapabilityRestoreRoles
	CapabilityAltReview
	CapabilityAssignRoles
	CapabilityRoleAll
	CapabilityMute
	CapabilityForceVerify
	CapabilityApproveRoleRequest
)

type Permissions struct {
	Config *model.Config
	Store  *store.Store
}

// HasAnyRole reports whether the member holds at least one of the given roles.
func HasAnyRole(member *discordgo.Member, roleIDs []string) bool {
	for _, want := range roleIDs {
		for _, have := range member.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Allow evaluates (actor, guild, capability) against the configured and
// stored role tables.
func (p Permissions) Allow(member *discordgo.Member, guildID string, cap Capability) (bool, error) {
	switch cap {
	case CapabilityGlobalBan:
		roles, err := p.Store.GlobalRoles()
		if err != nil {
			return false, err
		}
		return HasAnyRole(member, roles[guildID]), nil

	case CapabilityManageLinks:
		perms, err := p.Store.LinkPermissions()
		if err != nil {
			return false, err
		}
		for _, id := range perms.AllowedUsers {
			if member.User != nil && id == member.User.ID {
				return true, nil
			}
		}
		return HasAnyRole(member, perms.AllowedRoles[guildID]), nil

	case CapabilityRestoreRoles:
		return HasAnyRole(member, []string{p.Config.RoleRestore.RequiredRole}), nil

	case CapabilityAltReview:
		return HasAnyRole(member, p.Config.AltChecker.ApproverRoles), nil

	case CapabilityAssignRoles:
		return HasAnyRole(member, p.Config.RoleManagement.AssignRole.AllowedRoles), nil

	case CapabilityRoleAll:
		return HasAnyRole(member, []string{p.Config.RoleManagement.RoleAll.AllowedRole}), nil

	case CapabilityMute:
		return HasAnyRole(member, []string{p.Config.Moderation.Mute.RoleID}), nil

	case CapabilityForceVerify:
		return HasAnyRole(member, []string{p.Config.Verification.AdminRoleID}), nil

	case CapabilityApproveRoleRequest:
		cfg, ok, err := p.Store.RoleRequestConfig(guildID)
		if err != nil || !ok {
			return false, err
		}
		return HasAnyRole(member, cfg.ApproverRoles), nil
	}

	return false, fmt.Errorf("unknown capability %d", cap)
}
