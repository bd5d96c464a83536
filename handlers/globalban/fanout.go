// Package globalban implements the global ban orchestrator: confirm-gated
// ban/unban commands fanned out across every linked guild, with an
// approve/revoke escalation workflow on the audit channel.
package globalban

import (
	"encoding/json"
	"log"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/utils"
)

// BanClient is the slice of the platform client the fan-out needs.
type BanClient interface {
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildBanCreateWithReason(guildID, userID, reason string, days int, options ...discordgo.RequestOption) error
	GuildBanDelete(guildID, userID string, options ...discordgo.RequestOption) error
}

// FanOutResult records per-guild outcomes of a ban or unban sweep. Guild
// names are used when resolvable, IDs otherwise.
type FanOutResult struct {
	Success []string
	Failed  []string
}

// marshalGuildList encodes a guild-name list for the database row. A nil
// slice still encodes as an empty JSON array.
func marshalGuildList(names []string) string {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func guildName(c BanClient, guildID string) string {
	guild, err := c.Guild(guildID)
	if err != nil || guild == nil || guild.Name == "" {
		return guildID
	}
	return guild.Name
}

// FanOutBan bans the user in every linked guild. Failures are isolated per
// guild and never abort the sweep.
func FanOutBan(c BanClient, linkedGuilds []string, userID, reason string) FanOutResult {
	var result FanOutResult
	for _, guildID := range linkedGuilds {
		name := guildName(c, guildID)
		if err := c.GuildBanCreateWithReason(guildID, userID, reason, 0); err != nil {
			log.Printf("Failed to ban user %s in guild %s: %v", userID, guildID, err)
			result.Failed = append(result.Failed, name)
			continue
		}
		result.Success = append(result.Success, name)
	}
	return result
}

// FanOutUnban removes the user's ban in every linked guild. A guild where no
// ban exists counts as neither success nor failure.
func FanOutUnban(c BanClient, linkedGuilds []string, userID string) FanOutResult {
	var result FanOutResult
	for _, guildID := range linkedGuilds {
		name := guildName(c, guildID)
		if err := c.GuildBanDelete(guildID, userID); err != nil {
			if utils.IsUnknownBan(err) {
				continue
			}
			log.Printf("Failed to unban user %s in guild %s: %v", userID, guildID, err)
			result.Failed = append(result.Failed, name)
			continue
		}
		result.Success = append(result.Success, name)
	}
	return result
}
