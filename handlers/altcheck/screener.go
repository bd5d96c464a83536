// Package altcheck screens new members whose accounts are younger than the
// configured threshold and routes them through a manual review.
package altcheck

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/model"
	"guardian-bot/store"
)

// AccountAge derives how old an account is from its snowflake ID.
func AccountAge(userID string, now time.Time) (time.Duration, error) {
	created, err := discordgo.SnowflakeTimestamp(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to decode account creation time: %w", err)
	}
	return now.Sub(created), nil
}

// ShouldFlag reports whether an account of the given age needs review.
func ShouldFlag(age time.Duration, thresholdDays int) bool {
	return age < time.Duration(thresholdDays)*24*time.Hour
}

// Flag records a pending review for a flagged join. A re-join overwrites the
// earlier entry so only the latest join is tracked.
func Flag(st *store.Store, guildID, userID string, ageDays int, joinedAt time.Time) error {
	return st.PutPendingAltCheck(model.PendingAltCheck{
		UserID:         userID,
		GuildID:        guildID,
		AccountAgeDays: ageDays,
		JoinedAt:       joinedAt.Unix(),
	})
}

// Approve clears the pending review. The member keeps whatever roles they
// have; approval changes nothing about them.
func Approve(st *store.Store, userID string) error {
	return st.DeletePendingAltCheck(userID)
}

// DenyClient is the slice of the platform client a denial needs.
type DenyClient interface {
	GuildMemberEdit(guildID, userID string, data *discordgo.GuildMemberParams, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

// Deny replaces the member's roles with exactly the denied role and clears
// the pending review.
func Deny(c DenyClient, st *store.Store, guildID, userID, deniedRole string) error {
	roles := []string{deniedRole}
	if _, err := c.GuildMemberEdit(guildID, userID, &discordgo.GuildMemberParams{Roles: &roles}); err != nil {
		return fmt.Errorf("failed to apply denied role: %w", err)
	}
	return st.DeletePendingAltCheck(userID)
}
