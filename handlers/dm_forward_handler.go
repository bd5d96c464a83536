package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/store"
	"guardian-bot/utils"
)

// HandleSetDMForward processes /setdmforward, routing bot DMs to a channel.
func HandleSetDMForward(st *store.Store, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This command can only be used in a server.")
		return
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		utils.SendErrorResponse(s, i, "Only server administrators can configure DM forwarding.")
		return
	}

	channel := i.ApplicationCommandData().Options[0].ChannelValue(s)
	if channel == nil {
		utils.SendErrorResponse(s, i, "Could not resolve the channel.")
		return
	}

	if err := st.SetDMForwardChannel(i.GuildID, channel.ID); err != nil {
		log.Printf("Error saving DM forward channel: %v", err)
		utils.SendErrorResponse(s, i, "Failed to save the forwarding channel.")
		return
	}

	utils.SendSimpleResponse(s, i, fmt.Sprintf("✅ DMs sent to the bot will be forwarded to <#%s>.", channel.ID))
}

// HandleDMForward mirrors direct messages into every configured forward
// channel so moderators can see member appeals.
func HandleDMForward(st *store.Store, s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID != "" || m.Author == nil || m.Author.Bot {
		return
	}

	channels, err := st.DMForwardChannels()
	if err != nil {
		log.Printf("Error reading DM forward channels: %v", err)
		return
	}
	if len(channels) == 0 {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📬 Direct Message Received",
		Description: m.Content,
		Color:       3447003,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "From", Value: fmt.Sprintf("%s (`%s`)", m.Author.Username, m.Author.ID)},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if len(m.Attachments) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Attachments", Value: fmt.Sprintf("%d file(s)", len(m.Attachments)),
		})
	}

	for guildID, channelID := range channels {
		if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
			log.Printf("Error forwarding DM to channel %s (guild %s): %v", channelID, guildID, err)
		}
	}
}
