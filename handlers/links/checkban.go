package links

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/utils"
	"guardian-bot/utils/database/banrecords"
)

// HandleCheckBan processes /checkban: current registry status plus the ban
// history kept in the database.
func (h *Handler) HandleCheckBan(s *discordgo.Session, i *discordgo.InteractionCreate) {
	target := i.ApplicationCommandData().Options[0].UserValue(s)
	if target == nil {
		utils.SendErrorResponse(s, i, "Could not resolve the user.")
		return
	}

	banned, err := h.Store.IsBanned(target.ID)
	if err != nil {
		log.Printf("Error checking ban registry: %v", err)
		utils.SendErrorResponse(s, i, "Failed to read the ban registry.")
		return
	}

	records, err := banrecords.GetBanRecordsByUserID(h.DB, target.ID)
	if err != nil {
		log.Printf("Error reading ban records: %v", err)
		utils.SendErrorResponse(s, i, "Failed to read the ban history.")
		return
	}

	status := "✅ Not globally banned"
	color := 3066993
	if banned {
		status = "🔨 Globally banned"
		color = 15158332
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Ban Status: %s", target.Username),
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s> (`%s`)", target.ID, target.ID), Inline: true},
			{Name: "Status", Value: status, Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	// Show the most recent entries only; old history stays in the database.
	limit := len(records)
	if limit > 5 {
		limit = 5
	}
	for _, r := range records[:limit] {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s <t:%d:R>", r.Status, r.Timestamp),
			Value: fmt.Sprintf("Reason: %s\nBy: <@%s>", r.Reason, r.AdminID),
		})
	}
	if len(records) == 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "History", Value: "No ban records.",
		})
	}

	utils.SendEmbedResponse(s, i, embed)
}
