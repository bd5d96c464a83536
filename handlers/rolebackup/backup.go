// Package rolebackup snapshots the roles of members removed by moderation so
// they can be restored within 24 hours of the removal.
package rolebackup

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/model"
	"guardian-bot/store"
	"guardian-bot/utils"
)

// correlationWindow bounds how far an audit-log entry may lag the removal
// event and still be attributed to it.
const correlationWindow = 5 * time.Second

// AuditClient is the slice of the platform client removal classification
// needs.
type AuditClient interface {
	GuildAuditLog(guildID, userID, beforeID string, actionType, limit int, options ...discordgo.RequestOption) (*discordgo.GuildAuditLog, error)
}

// RemovalKind classifies why a member left.
type RemovalKind int

const (
	RemovalLeave RemovalKind = iota
	RemovalKick
	RemovalBan
)

func (k RemovalKind) String() string {
	switch k {
	case RemovalKick:
		return "kick"
	case RemovalBan:
		return "ban"
	}
	return "leave"
}

// ClassifyRemoval decides whether a member removal was a kick, a ban, or a
// voluntary leave by correlating recent audit-log entries against the removal
// time. Audit-log failures degrade to leave: a missed backup beats a crash.
func ClassifyRemoval(c AuditClient, guildID, userID string, removedAt time.Time) RemovalKind {
	checks := []struct {
		action int
		kind   RemovalKind
	}{
		{int(discordgo.AuditLogActionMemberBanAdd), RemovalBan},
		{int(discordgo.AuditLogActionMemberKick), RemovalKick},
	}

	for _, check := range checks {
		auditLog, err := c.GuildAuditLog(guildID, "", "", check.action, 5)
		if err != nil {
			log.Printf("Error fetching audit log for guild %s: %v", guildID, err)
			continue
		}
		for _, entry := range auditLog.AuditLogEntries {
			if entry.TargetID != userID {
				continue
			}
			created, err := discordgo.SnowflakeTimestamp(entry.ID)
			if err != nil {
				continue
			}
			if removedAt.Sub(created) < correlationWindow && created.Sub(removedAt) < correlationWindow {
				return check.kind
			}
		}
	}
	return RemovalLeave
}

// Snapshot stores a member's roles for later restoration, overwriting any
// earlier backup. Members with no roles produce no backup. Expired entries
// are purged opportunistically on every snapshot.
func Snapshot(st *store.Store, guildID string, user *discordgo.User, roles []string, now time.Time) (bool, error) {
	if _, err := st.PurgeExpiredBackups(now); err != nil {
		return false, fmt.Errorf("failed to purge expired backups: %w", err)
	}
	if len(roles) == 0 {
		return false, nil
	}

	err := st.PutRoleBackup(model.RoleBackup{
		UserID:    user.ID,
		GuildID:   guildID,
		Roles:     roles,
		Username:  user.Username,
		Timestamp: now.Unix(),
	})
	if err != nil {
		return false, fmt.Errorf("failed to store role backup: %w", err)
	}
	return true, nil
}

type Handler struct {
	Config *model.Config
	Store  *store.Store
	Perms  utils.Permissions
}

// HandleMemberRemove backs up the roles of members removed by moderation.
// Voluntary leaves are not backed up.
func (h *Handler) HandleMemberRemove(s *discordgo.Session, e *discordgo.GuildMemberRemove) {
	if e.User == nil || e.User.Bot {
		return
	}

	now := time.Now()
	kind := ClassifyRemoval(s, e.GuildID, e.User.ID, now)
	if kind == RemovalLeave {
		return
	}

	// The remove payload carries no roles; the state cache has the last
	// snapshot seen before removal.
	roles := e.Roles
	if cached, err := s.State.Member(e.GuildID, e.User.ID); err == nil && cached != nil {
		roles = cached.Roles
	}

	stored, err := Snapshot(h.Store, e.GuildID, e.User, roles, now)
	if err != nil {
		log.Printf("Error backing up roles for user %s: %v", e.User.ID, err)
		return
	}
	if !stored {
		return
	}

	details := fmt.Sprintf("Backed up %d role(s) for %s (`%s`) after %s", len(roles), e.User.Username, e.User.ID, kind)
	if err := utils.LogInfo(s, h.Config.RoleRestore.LogChannel, "RoleBackup", "Snapshot", details); err != nil {
		log.Printf("Error sending role backup log: %v", err)
	}
}
