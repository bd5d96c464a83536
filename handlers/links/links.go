// Package links manages the linked-guild list that global bans fan out
// across, plus the permission tables governing who may edit it.
package links

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"

	"guardian-bot/model"
	"guardian-bot/store"
	"guardian-bot/utils"
)

type Handler struct {
	Config *model.Config
	Store  *store.Store
	DB     *sqlx.DB
	Perms  utils.Permissions
}

// requireLinkAuthority admits guild administrators and anyone granted link
// management through the stored permission table.
func (h *Handler) requireLinkAuthority(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This command can only be used in a server.")
		return false
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	allowed, err := h.Perms.Allow(i.Member, i.GuildID, utils.CapabilityManageLinks)
	if err != nil {
		log.Printf("Error checking link permission: %v", err)
		utils.SendErrorResponse(s, i, "Failed to check permissions.")
		return false
	}
	if !allowed {
		utils.SendErrorResponse(s, i, "You do not have permission to manage guild links.")
		return false
	}
	return true
}

// HandleLinkServer processes /globallinkserver, adding the current guild to
// the fan-out list.
func (h *Handler) HandleLinkServer(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.requireLinkAuthority(s, i) {
		return
	}

	added, err := h.Store.AddLinkedGuild(i.GuildID)
	if err != nil {
		log.Printf("Error linking guild %s: %v", i.GuildID, err)
		utils.SendErrorResponse(s, i, "Failed to link this server.")
		return
	}
	if !added {
		utils.SendSimpleResponse(s, i, "This server is already linked.")
		return
	}

	utils.SendSimpleResponse(s, i, "🔗 This server is now part of the global ban network.")
	h.logLinkChange(s, i, "Link", fmt.Sprintf("Guild %s linked by <@%s>", i.GuildID, i.Member.User.ID))
}

// HandleUnlinkServer processes /ungloballink. An explicit guild ID lets an
// admin prune a guild the bot can no longer see.
func (h *Handler) HandleUnlinkServer(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.requireLinkAuthority(s, i) {
		return
	}

	guildID := i.GuildID
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "guild_id" {
			guildID = opt.StringValue()
		}
	}

	removed, err := h.Store.RemoveLinkedGuild(guildID)
	if err != nil {
		log.Printf("Error unlinking guild %s: %v", guildID, err)
		utils.SendErrorResponse(s, i, "Failed to unlink the server.")
		return
	}
	if !removed {
		utils.SendErrorResponse(s, i, "That server is not linked.")
		return
	}

	utils.SendSimpleResponse(s, i, fmt.Sprintf("🔌 Server `%s` removed from the global ban network.", guildID))
	h.logLinkChange(s, i, "Unlink", fmt.Sprintf("Guild %s unlinked by <@%s>", guildID, i.Member.User.ID))
}

// HandleListLinkedGuilds shows the network, split into guilds the bot can
// still resolve and stale entries.
func (h *Handler) HandleListLinkedGuilds(s *discordgo.Session, i *discordgo.InteractionCreate) {
	linked, err := h.Store.LinkedGuilds()
	if err != nil {
		log.Printf("Error reading linked guilds: %v", err)
		utils.SendErrorResponse(s, i, "Failed to read the linked guild list.")
		return
	}
	if len(linked) == 0 {
		utils.SendSimpleResponse(s, i, "No servers are linked yet.")
		return
	}

	var reachable, stale []string
	for _, guildID := range linked {
		guild, err := s.Guild(guildID)
		if err != nil || guild == nil {
			stale = append(stale, fmt.Sprintf("`%s`", guildID))
			continue
		}
		reachable = append(reachable, fmt.Sprintf("%s (`%s`)", guild.Name, guildID))
	}

	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("🌐 Linked Servers (%d)", len(linked)),
		Color:     3447003,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if len(reachable) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Reachable", Value: strings.Join(reachable, "\n"),
		})
	}
	if len(stale) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Unreachable", Value: strings.Join(stale, "\n"),
		})
	}

	utils.SendEmbedResponse(s, i, embed)
}

func (h *Handler) logLinkChange(s *discordgo.Session, i *discordgo.InteractionCreate, operation, details string) {
	if err := utils.LogInfo(s, h.Config.Logging.GlobalLinkLog, "GuildLinks", operation, details); err != nil {
		log.Printf("Error sending link log: %v", err)
	}
}
