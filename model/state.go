package model

import "fmt"

// PendingBan tracks a global-ban audit message awaiting approve/revoke,
// keyed in the store by the audit message ID.
type PendingBan struct {
	UserID    string `json:"userId"`
	ChannelID string `json:"channelId"`
	Timestamp int64  `json:"timestamp"`
}

// PendingAltCheck tracks a flagged new account awaiting review, keyed by the
// flagged user's ID. A re-join overwrites the previous entry.
type PendingAltCheck struct {
	UserID         string `json:"userId"`
	GuildID        string `json:"guildId"`
	AccountAgeDays int    `json:"accountAge"`
	JoinedAt       int64  `json:"joinedAt"`
}

// RoleBackup is a snapshot of a member's roles taken when they were kicked or
// banned. Valid for 24 hours from Timestamp.
type RoleBackup struct {
	UserID    string   `json:"userId"`
	GuildID   string   `json:"guildId"`
	Roles     []string `json:"roles"`
	Username  string   `json:"username"`
	Timestamp int64    `json:"timestamp"`
}

// BackupKey builds the role_backups document key for a (guild, user) pair.
func BackupKey(guildID, userID string) string {
	return fmt.Sprintf("%s-%s", guildID, userID)
}

// LinkPermissions governs who may add or remove guild links.
type LinkPermissions struct {
	AllowedUsers []string            `json:"allowedUsers"`
	AllowedRoles map[string][]string `json:"allowedRoles"`
}

// AutoRoleConfig is the per-guild automatic role granted on join.
type AutoRoleConfig struct {
	RoleID   string `json:"roleId"`
	RoleName string `json:"roleName"`
	Enabled  bool   `json:"enabled"`
	SetupBy  string `json:"setupBy"`
}

// RoleRequestConfig is the per-guild role-request setup: where approval
// embeds are posted and which roles may act on them.
type RoleRequestConfig struct {
	ChannelID     string   `json:"channelId"`
	ApproverRoles []string `json:"approverRoles"`
}
