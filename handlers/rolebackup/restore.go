package rolebackup

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/store"
	"guardian-bot/utils"
)

// RoleClient is the slice of the platform client a restore needs.
type RoleClient interface {
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMemberEdit(guildID, userID string, data *discordgo.GuildMemberParams, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

// RestoreOutcome summarizes one restore attempt.
type RestoreOutcome struct {
	Restored int
	Skipped  int
}

var (
	errNoBackup      = fmt.Errorf("no backup found")
	errBackupExpired = fmt.Errorf("backup expired")
)

// Restore reapplies a backed-up role set to a rejoined member. Roles that no
// longer exist or are managed by an integration are skipped. The backup is
// consumed on success.
func Restore(c RoleClient, st *store.Store, guildID, userID string, now time.Time) (RestoreOutcome, error) {
	backup, ok, err := st.RoleBackup(guildID, userID)
	if err != nil {
		return RestoreOutcome{}, fmt.Errorf("failed to read role backup: %w", err)
	}
	if !ok {
		return RestoreOutcome{}, errNoBackup
	}
	if now.Sub(time.Unix(backup.Timestamp, 0)) > store.BackupTTL {
		if err := st.DeleteRoleBackup(guildID, userID); err != nil {
			return RestoreOutcome{}, fmt.Errorf("failed to drop expired backup: %w", err)
		}
		return RestoreOutcome{}, errBackupExpired
	}

	member, err := c.GuildMember(guildID, userID)
	if err != nil {
		return RestoreOutcome{}, fmt.Errorf("user is not a member of this server: %w", err)
	}

	guildRoles, err := c.GuildRoles(guildID)
	if err != nil {
		return RestoreOutcome{}, fmt.Errorf("failed to list guild roles: %w", err)
	}
	assignable := make(map[string]bool, len(guildRoles))
	for _, r := range guildRoles {
		if !r.Managed && r.ID != guildID {
			assignable[r.ID] = true
		}
	}

	merged := append([]string{}, member.Roles...)
	have := make(map[string]bool, len(merged))
	for _, id := range merged {
		have[id] = true
	}

	var outcome RestoreOutcome
	for _, id := range backup.Roles {
		if !assignable[id] {
			outcome.Skipped++
			continue
		}
		if have[id] {
			continue
		}
		merged = append(merged, id)
		outcome.Restored++
	}

	if outcome.Restored > 0 {
		if _, err := c.GuildMemberEdit(guildID, userID, &discordgo.GuildMemberParams{Roles: &merged}); err != nil {
			return RestoreOutcome{}, fmt.Errorf("failed to apply restored roles: %w", err)
		}
	}

	if err := st.DeleteRoleBackup(guildID, userID); err != nil {
		return outcome, fmt.Errorf("failed to consume backup: %w", err)
	}
	return outcome, nil
}

// HandleRestoreCommand processes /restoreroles.
func (h *Handler) HandleRestoreCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This command can only be used in a server.")
		return
	}

	allowed, err := h.Perms.Allow(i.Member, i.GuildID, utils.CapabilityRestoreRoles)
	if err != nil {
		log.Printf("Error checking restore permission: %v", err)
		utils.SendErrorResponse(s, i, "Failed to check permissions.")
		return
	}
	if !allowed {
		utils.SendErrorResponse(s, i, "You do not have permission to restore roles.")
		return
	}

	target := i.ApplicationCommandData().Options[0].UserValue(s)
	if target == nil {
		utils.SendErrorResponse(s, i, "Could not resolve the user.")
		return
	}

	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Error deferring restore response: %v", err)
		return
	}

	outcome, err := Restore(s, h.Store, i.GuildID, target.ID, time.Now())
	switch {
	case err == errNoBackup:
		utils.SendFollowUpError(s, i.Interaction, "No role backup exists for this user.")
		return
	case err == errBackupExpired:
		utils.SendFollowUpError(s, i.Interaction, "The role backup for this user has expired (older than 24 hours).")
		return
	case err != nil:
		log.Printf("Error restoring roles for user %s: %v", target.ID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to restore roles: "+err.Error())
		return
	}

	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("✅ Restored %d role(s) for <@%s>. %d role(s) were skipped.", outcome.Restored, target.ID, outcome.Skipped))

	details := fmt.Sprintf("Restored %d role(s) for <@%s>, requested by <@%s>. %d skipped.", outcome.Restored, target.ID, i.Member.User.ID, outcome.Skipped)
	if err := utils.LogInfo(s, h.Config.RoleRestore.LogChannel, "RoleBackup", "Restore", details); err != nil {
		log.Printf("Error sending restore log: %v", err)
	}
}
