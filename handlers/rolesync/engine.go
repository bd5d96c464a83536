// Package rolesync mirrors mapped roles between two paired guilds. Syncing is
// delta-driven: only roles that actually changed on a member are considered,
// and a mirror write is skipped when the counterpart guild already matches.
// That guard is what keeps the two guilds' echo events from ping-ponging.
package rolesync

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Client is the slice of the platform client the sync engine needs.
type Client interface {
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

// Mapping pairs role IDs across the two guilds. Keys are source-guild roles,
// values their target-guild counterparts; lookup works in both directions.
type Mapping map[string]string

// Counterpart resolves the paired role for either direction.
func (m Mapping) Counterpart(roleID string) (string, bool) {
	if paired, ok := m[roleID]; ok {
		return paired, true
	}
	for src, dst := range m {
		if dst == roleID {
			return src, true
		}
	}
	return "", false
}

// Delta is the set of roles that changed on a member in one guild.
type Delta struct {
	Added   []string
	Removed []string
}

// Diff computes the role delta between two snapshots of a member.
func Diff(oldRoles, newRoles []string) Delta {
	old := make(map[string]bool, len(oldRoles))
	for _, id := range oldRoles {
		old[id] = true
	}
	cur := make(map[string]bool, len(newRoles))
	for _, id := range newRoles {
		cur[id] = true
	}

	var d Delta
	for _, id := range newRoles {
		if !old[id] {
			d.Added = append(d.Added, id)
		}
	}
	for _, id := range oldRoles {
		if !cur[id] {
			d.Removed = append(d.Removed, id)
		}
	}
	return d
}

// Change is one mirror write the engine performed.
type Change struct {
	GuildID string
	RoleID  string
	Added   bool
}

// Sync mirrors a member's role delta into the counterpart guild. Members not
// present in both guilds are skipped. Returns the writes performed; an empty
// list means the counterpart already matched.
func Sync(c Client, mapping Mapping, counterpartGuildID, userID string, delta Delta) ([]Change, error) {
	member, err := c.GuildMember(counterpartGuildID, userID)
	if err != nil || member == nil {
		// Not in the counterpart guild, nothing to mirror.
		return nil, nil
	}

	has := make(map[string]bool, len(member.Roles))
	for _, id := range member.Roles {
		has[id] = true
	}

	var changes []Change
	for _, roleID := range delta.Added {
		paired, ok := mapping.Counterpart(roleID)
		if !ok || has[paired] {
			continue
		}
		if err := c.GuildMemberRoleAdd(counterpartGuildID, userID, paired); err != nil {
			return changes, fmt.Errorf("failed to mirror role add %s in guild %s: %w", paired, counterpartGuildID, err)
		}
		changes = append(changes, Change{GuildID: counterpartGuildID, RoleID: paired, Added: true})
	}
	for _, roleID := range delta.Removed {
		paired, ok := mapping.Counterpart(roleID)
		if !ok || !has[paired] {
			continue
		}
		if err := c.GuildMemberRoleRemove(counterpartGuildID, userID, paired); err != nil {
			return changes, fmt.Errorf("failed to mirror role remove %s in guild %s: %w", paired, counterpartGuildID, err)
		}
		changes = append(changes, Change{GuildID: counterpartGuildID, RoleID: paired, Added: false})
	}
	return changes, nil
}
