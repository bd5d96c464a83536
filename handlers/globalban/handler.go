package globalban

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"

	"guardian-bot/model"
	"guardian-bot/store"
	"guardian-bot/utils"
	"guardian-bot/utils/database/banrecords"
)

// Handler owns the global ban workflow. One instance is wired at startup.
type Handler struct {
	Config *model.Config
	Store  *store.Store
	DB     *sqlx.DB
	Perms  utils.Permissions
}

// HandleBanCommand processes /globalban: authorization, cooldown, then an
// ephemeral confirm prompt. Nothing is executed until the requester confirms.
func (h *Handler) HandleBanCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This command can only be used in a server.")
		return
	}

	allowed, err := h.Perms.Allow(i.Member, i.GuildID, utils.CapabilityGlobalBan)
	if err != nil {
		log.Printf("Error checking global ban permission: %v", err)
		utils.SendErrorResponse(s, i, "Failed to check permissions.")
		return
	}
	if !allowed {
		utils.SendErrorResponse(s, i, "You do not have permission to use global bans in this server.")
		return
	}

	options := i.ApplicationCommandData().Options
	target := options[0].UserValue(s)
	reason := options[1].StringValue()
	admin := i.Member.User

	if target == nil {
		utils.SendErrorResponse(s, i, "Could not resolve the target user.")
		return
	}
	if target.ID == admin.ID {
		utils.SendErrorResponse(s, i, "You cannot globally ban yourself.")
		return
	}
	if target.ID == s.State.User.ID {
		utils.SendErrorResponse(s, i, "You cannot globally ban the bot.")
		return
	}

	window := time.Duration(h.Config.GlobalBan.CooldownMinutes) * time.Minute
	if remaining, ok := utils.CheckAndSetBanCooldown(admin.ID, window, h.Config.GlobalBan.CooldownBypassUserID); !ok {
		utils.SendErrorResponse(s, i, fmt.Sprintf("You are on cooldown. Try again in %d minute(s).", int(remaining.Minutes())+1))
		return
	}

	h.promptConfirmation(s, i, target, reason, false)
}

// HandleUnbanCommand processes /globalunban with the same confirm gate.
func (h *Handler) HandleUnbanCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This command can only be used in a server.")
		return
	}

	allowed, err := h.Perms.Allow(i.Member, i.GuildID, utils.CapabilityGlobalBan)
	if err != nil {
		log.Printf("Error checking global ban permission: %v", err)
		utils.SendErrorResponse(s, i, "Failed to check permissions.")
		return
	}
	if !allowed {
		utils.SendErrorResponse(s, i, "You do not have permission to use global unbans in this server.")
		return
	}

	options := i.ApplicationCommandData().Options
	target := options[0].UserValue(s)
	if target == nil {
		utils.SendErrorResponse(s, i, "Could not resolve the target user.")
		return
	}

	banned, err := h.Store.IsBanned(target.ID)
	if err != nil {
		log.Printf("Error checking ban registry: %v", err)
		utils.SendErrorResponse(s, i, "Failed to read the ban registry.")
		return
	}
	if !banned {
		utils.SendErrorResponse(s, i, "This user is not globally banned.")
		return
	}

	h.promptConfirmation(s, i, target, "Global unban", true)
}

func (h *Handler) promptConfirmation(s *discordgo.Session, i *discordgo.InteractionCreate, target *discordgo.User, reason string, unban bool) {
	verb := "ban"
	if unban {
		verb = "unban"
	}
	content := fmt.Sprintf("⚠️ You are about to globally %s **%s** (`%s`).\nReason: %s\n\nConfirm within 30 seconds.", verb, target.Username, target.ID, reason)

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: confirmRow(i.ID, unban),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error sending confirmation prompt: %v", err)
		return
	}

	confirms.Add(i.ID, &pendingConfirm{
		requesterID: i.Member.User.ID,
		targetID:    target.ID,
		targetName:  target.Username,
		reason:      reason,
		guildID:     i.GuildID,
		unban:       unban,
		interaction: i.Interaction,
	}, func(p *pendingConfirm) {
		expirePrompt(s, p)
	})
}

// HandleConfirmButton runs the confirmed ban or unban. The clicked button's
// payload is the prompt interaction ID.
func (h *Handler) HandleConfirmButton(s *discordgo.Session, i *discordgo.InteractionCreate, action model.Action) {
	p, result := confirms.Take(action.ID, utils.InteractionUser(i).ID)
	switch result {
	case takeNotFound:
		utils.SendErrorResponse(s, i, "This confirmation has expired or was already handled.")
		return
	case takeWrongUser:
		utils.SendErrorResponse(s, i, "Only the requester can confirm this action.")
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		log.Printf("Error deferring confirmation update: %v", err)
	}

	if p.unban {
		h.executeUnban(s, i, p)
		return
	}
	h.executeBan(s, i, p)
}

// HandleCancelButton tears down the prompt without acting.
func (h *Handler) HandleCancelButton(s *discordgo.Session, i *discordgo.InteractionCreate, action model.Action) {
	_, result := confirms.Take(action.ID, utils.InteractionUser(i).ID)
	switch result {
	case takeNotFound:
		utils.SendErrorResponse(s, i, "This confirmation has expired or was already handled.")
		return
	case takeWrongUser:
		utils.SendErrorResponse(s, i, "Only the requester can cancel this action.")
		return
	}

	content := "🚫 Cancelled. No action was taken."
	empty := []discordgo.MessageComponent{}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: empty,
		},
	})
	if err != nil {
		log.Printf("Error cancelling confirmation: %v", err)
	}
}

func (h *Handler) executeBan(s *discordgo.Session, i *discordgo.InteractionCreate, p *pendingConfirm) {
	adminID := utils.InteractionUser(i).ID

	added, err := h.Store.AddBan(p.targetID)
	if err != nil {
		log.Printf("Error updating ban registry: %v", err)
		h.editPrompt(s, i, "Failed to update the ban registry.")
		return
	}
	if !added {
		h.editPrompt(s, i, "This user is already globally banned.")
		return
	}

	linked, err := h.Store.LinkedGuilds()
	if err != nil {
		log.Printf("Error reading linked guilds: %v", err)
		h.editPrompt(s, i, "Failed to read the linked guild list.")
		return
	}

	result := FanOutBan(s, linked, p.targetID, p.reason)
	target := &discordgo.User{ID: p.targetID, Username: p.targetName}
	embed := banResultEmbed(target, adminID, p.reason, result, false)

	content := ""
	empty := []discordgo.MessageComponent{}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &empty,
	}); err != nil {
		log.Printf("Error editing confirmation with result: %v", err)
	}

	h.recordBan(s, i, p, adminID, result)
}

// recordBan persists the audit trail: a database row, the audit-channel
// message with approve/revoke buttons, and the evidence thread under it.
func (h *Handler) recordBan(s *discordgo.Session, i *discordgo.InteractionCreate, p *pendingConfirm, adminID string, result FanOutResult) {
	auditChannel := h.Config.Logging.GlobalLinkLog
	if auditChannel == "" {
		log.Printf("No audit channel configured, ban record for user %s kept in database only", p.targetID)
		h.insertBanRecord("", adminID, p, result)
		return
	}

	target := &discordgo.User{ID: p.targetID, Username: p.targetName}
	embed := banResultEmbed(target, adminID, p.reason, result, false)
	msg, err := s.ChannelMessageSendComplex(auditChannel, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: auditRow(p.targetID),
	})
	if err != nil {
		log.Printf("Error posting ban audit message: %v", err)
		h.insertBanRecord("", adminID, p, result)
		return
	}

	h.insertBanRecord(msg.ID, adminID, p, result)

	if err := h.Store.PutPendingBan(msg.ID, model.PendingBan{
		UserID:    p.targetID,
		ChannelID: auditChannel,
		Timestamp: time.Now().Unix(),
	}); err != nil {
		log.Printf("Error recording pending ban action: %v", err)
	}

	threadName := fmt.Sprintf("Evidence: %s", p.targetName)
	thread, err := s.MessageThreadStart(auditChannel, msg.ID, threadName, 1440)
	if err != nil {
		log.Printf("Error creating evidence thread: %v", err)
		return
	}
	if _, err := s.ChannelMessageSend(thread.ID, "📎 Post evidence for this global ban here."); err != nil {
		log.Printf("Error sending evidence thread prompt: %v", err)
	}
}

func (h *Handler) insertBanRecord(messageID, adminID string, p *pendingConfirm, result FanOutResult) {
	if _, err := banrecords.AddBanRecord(h.DB, model.BanRecord{
		MessageID:     messageID,
		AdminID:       adminID,
		UserID:        p.targetID,
		UserUsername:  p.targetName,
		Reason:        p.reason,
		Timestamp:     time.Now().Unix(),
		SuccessGuilds: marshalGuildList(result.Success),
		FailedGuilds:  marshalGuildList(result.Failed),
		Status:        model.BanStatusActive,
	}); err != nil {
		log.Printf("Error inserting ban record: %v", err)
	}
}

func (h *Handler) editPrompt(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	content := "❌ " + message
	empty := []discordgo.MessageComponent{}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Components: &empty,
	}); err != nil {
		log.Printf("Error editing confirmation prompt: %v", err)
	}
}
