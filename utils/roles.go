package utils

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// HighestRolePosition returns the highest position among the member's roles.
// A member with no roles sits at position 0 (the @everyone baseline).
func HighestRolePosition(s *discordgo.Session, guildID string, member *discordgo.Member) (int, error) {
	guildRoles, err := s.GuildRoles(guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch guild roles: %w", err)
	}

	positions := make(map[string]int, len(guildRoles))
	for _, r := range guildRoles {
		positions[r.ID] = r.Position
	}

	highest := 0
	for _, id := range member.Roles {
		if pos, ok := positions[id]; ok && pos > highest {
			highest = pos
		}
	}
	return highest, nil
}

// FindRole resolves a role ID against the guild's live role list.
func FindRole(s *discordgo.Session, guildID, roleID string) (*discordgo.Role, error) {
	guildRoles, err := s.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild roles: %w", err)
	}
	for _, r := range guildRoles {
		if r.ID == roleID {
			return r, nil
		}
	}
	return nil, nil
}

// HasRole reports whether the member holds the given role.
func HasRole(member *discordgo.Member, roleID string) bool {
	for _, id := range member.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}
