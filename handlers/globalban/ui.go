package globalban

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/model"
)

func guildList(names []string) string {
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, "\n")
}

// banResultEmbed builds the per-guild outcome summary shown to the admin and
// mirrored to the audit channel.
func banResultEmbed(target *discordgo.User, adminID, reason string, result FanOutResult, unban bool) *discordgo.MessageEmbed {
	title := "🔨 Global Ban Executed"
	color := 15158332 // Red
	if unban {
		title = "🔓 Global Unban Executed"
		color = 3066993 // Green
	}

	return &discordgo.MessageEmbed{
		Title: title,
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("%s (`%s`)", target.Username, target.ID), Inline: true},
			{Name: "By", Value: fmt.Sprintf("<@%s>", adminID), Inline: true},
			{Name: "Reason", Value: reason, Inline: false},
			{Name: "Servers Affected", Value: fmt.Sprintf("%d", len(result.Success)+len(result.Failed)), Inline: true},
			{Name: fmt.Sprintf("✅ Successful (%d)", len(result.Success)), Value: guildList(result.Success), Inline: false},
			{Name: fmt.Sprintf("❌ Failed (%d)", len(result.Failed)), Value: guildList(result.Failed), Inline: false},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// confirmRow is the 30-second confirm/cancel prompt. The custom IDs carry the
// prompt interaction ID so the click can find its pending entry.
func confirmRow(promptID string, unban bool) []discordgo.MessageComponent {
	confirmKind, cancelKind := model.ActionConfirmBan, model.ActionCancelBan
	label := "Confirm Ban"
	if unban {
		confirmKind, cancelKind = model.ActionConfirmUnban, model.ActionCancelUnban
		label = "Confirm Unban"
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    label,
					Style:    discordgo.DangerButton,
					CustomID: model.Action{Kind: confirmKind, ID: promptID}.CustomID(),
				},
				discordgo.Button{
					Label:    "Cancel",
					Style:    discordgo.SecondaryButton,
					CustomID: model.Action{Kind: cancelKind, ID: promptID}.CustomID(),
				},
			},
		},
	}
}

// auditRow is attached to the audit-channel message after a ban executes. The
// IDs carry the banned user so approve/revoke survive restarts.
func auditRow(userID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Approve",
					Style:    discordgo.SuccessButton,
					CustomID: model.Action{Kind: model.ActionApproveBan, ID: userID}.CustomID(),
				},
				discordgo.Button{
					Label:    "Revoke",
					Style:    discordgo.DangerButton,
					CustomID: model.Action{Kind: model.ActionRevokeBan, ID: userID}.CustomID(),
				},
			},
		},
	}
}

// approvedRow replaces the audit row once approved: the approve button is
// frozen with the approver's name, revoke stays live.
func approvedRow(userID, approverName string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Approved By: " + approverName,
					Style:    discordgo.SuccessButton,
					CustomID: model.Action{Kind: model.ActionBanApproved, ID: userID}.CustomID(),
					Disabled: true,
				},
				discordgo.Button{
					Label:    "Revoke",
					Style:    discordgo.DangerButton,
					CustomID: model.Action{Kind: model.ActionRevokeBan, ID: userID}.CustomID(),
				},
			},
		},
	}
}

// revokedRow is the terminal state after a revoke.
func revokedRow(userID, revokerName string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Revoked By: " + revokerName,
					Style:    discordgo.DangerButton,
					CustomID: model.Action{Kind: model.ActionBanRevoked, ID: userID}.CustomID(),
					Disabled: true,
				},
			},
		},
	}
}
