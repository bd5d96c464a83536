package roles

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/model"
	"guardian-bot/utils"
)

// applyVerification swaps the unverified role for the verified one.
func (h *Handler) applyVerification(s *discordgo.Session, guildID, userID string) error {
	cfg := h.Config.Verification
	if cfg.VerifiedRoleID == "" {
		return fmt.Errorf("verification is not configured")
	}

	if err := s.GuildMemberRoleAdd(guildID, userID, cfg.VerifiedRoleID); err != nil {
		return fmt.Errorf("failed to grant verified role: %w", err)
	}
	if cfg.UnverifiedRoleID != "" {
		if err := s.GuildMemberRoleRemove(guildID, userID, cfg.UnverifiedRoleID); err != nil {
			log.Printf("Error removing unverified role from user %s: %v", userID, err)
		}
	}
	return nil
}

// HandleSetupVerify processes /setupverify, posting the public verification
// prompt into the current channel.
func (h *Handler) HandleSetupVerify(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This command can only be used in a server.")
		return
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		utils.SendErrorResponse(s, i, "Only server administrators can post the verification prompt.")
		return
	}
	if h.Config.Verification.VerifiedRoleID == "" {
		utils.SendErrorResponse(s, i, "Verification is not configured.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "✅ Server Verification",
		Description: "Click the button below to verify yourself and unlock the server.",
		Color:       3066993,
	}
	_, err := s.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Verify",
						Style:    discordgo.SuccessButton,
						CustomID: model.Action{Kind: model.ActionVerify}.CustomID(),
					},
				},
			},
		},
	})
	if err != nil {
		log.Printf("Error posting verification prompt: %v", err)
		utils.SendErrorResponse(s, i, "Failed to post the verification prompt.")
		return
	}

	utils.SendSimpleResponse(s, i, "✅ Verification prompt posted.")
}

// HandleVerifyButton processes the public verification button.
func (h *Handler) HandleVerifyButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This action can only be used in a server.")
		return
	}

	user := i.Member.User
	if utils.HasRole(i.Member, h.Config.Verification.VerifiedRoleID) {
		utils.SendSimpleResponse(s, i, "You are already verified.")
		return
	}

	if err := h.applyVerification(s, i.GuildID, user.ID); err != nil {
		log.Printf("Error verifying user %s: %v", user.ID, err)
		utils.SendErrorResponse(s, i, "Verification failed. Please contact a moderator.")
		return
	}

	utils.SendSimpleResponse(s, i, "✅ You are now verified. Welcome!")

	details := fmt.Sprintf("<@%s> verified via button", user.ID)
	if err := utils.LogInfo(s, h.Config.Verification.LogChannelID, "Verification", "SelfVerify", details); err != nil {
		log.Printf("Error sending verification log: %v", err)
	}
}

// HandleForceVerify processes /forceverify, letting staff verify a member who
// cannot use the button.
func (h *Handler) HandleForceVerify(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This command can only be used in a server.")
		return
	}

	allowed, err := h.Perms.Allow(i.Member, i.GuildID, utils.CapabilityForceVerify)
	if err != nil {
		log.Printf("Error checking force verify permission: %v", err)
		utils.SendErrorResponse(s, i, "Failed to check permissions.")
		return
	}
	if !allowed {
		utils.SendErrorResponse(s, i, "You do not have permission to force verification.")
		return
	}

	target := i.ApplicationCommandData().Options[0].UserValue(s)
	if target == nil {
		utils.SendErrorResponse(s, i, "Could not resolve the user.")
		return
	}

	member, err := s.GuildMember(i.GuildID, target.ID)
	if err != nil {
		utils.SendErrorResponse(s, i, "That user is not a member of this server.")
		return
	}
	if utils.HasRole(member, h.Config.Verification.VerifiedRoleID) {
		utils.SendErrorResponse(s, i, "That user is already verified.")
		return
	}

	if err := h.applyVerification(s, i.GuildID, target.ID); err != nil {
		log.Printf("Error force-verifying user %s: %v", target.ID, err)
		utils.SendErrorResponse(s, i, "Failed to verify the user.")
		return
	}

	utils.SendSimpleResponse(s, i, fmt.Sprintf("✅ <@%s> has been verified.", target.ID))

	// Best effort, the member may have DMs closed.
	if channel, err := s.UserChannelCreate(target.ID); err == nil {
		embed := &discordgo.MessageEmbed{
			Title:       "✅ You Have Been Verified",
			Description: "A moderator verified your account. You now have access to the server.",
			Color:       3066993,
			Timestamp:   time.Now().Format(time.RFC3339),
		}
		if _, err := s.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
			log.Printf("Error sending verification DM to user %s: %v", target.ID, err)
		}
	}

	details := fmt.Sprintf("<@%s> force-verified <@%s>", i.Member.User.ID, target.ID)
	if err := utils.LogInfo(s, h.Config.Verification.LogChannelID, "Verification", "ForceVerify", details); err != nil {
		log.Printf("Error sending verification log: %v", err)
	}
}
