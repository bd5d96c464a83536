package model

// Config stores the full application configuration: secrets from the
// environment plus the structured config document.
type Config struct {
	BotToken string
	AppID    string

	Logging        LoggingConfig        `mapstructure:"logging"`
	GlobalBan      GlobalBanConfig      `mapstructure:"globalBan"`
	AltChecker     AltCheckerConfig     `mapstructure:"altChecker"`
	RoleRestore    RoleRestoreConfig    `mapstructure:"roleRestore"`
	RoleSync       RoleSyncConfig       `mapstructure:"roleSync"`
	RoleManagement RoleManagementConfig `mapstructure:"roleManagement"`
	Moderation     ModerationConfig     `mapstructure:"moderation"`
	Verification   VerificationConfig   `mapstructure:"verification"`
}

type LoggingConfig struct {
	MainLogChannel string `mapstructure:"mainLogChannel"`
	GlobalLinkLog  string `mapstructure:"globalLinkLog"`
}

type GlobalBanConfig struct {
	CooldownMinutes      int    `mapstructure:"cooldownMinutes"`
	CooldownBypassUserID string `mapstructure:"cooldownBypassUserID"`
	DatabasePath         string `mapstructure:"databasePath"`
}

type AltCheckerConfig struct {
	LogChannel     string   `mapstructure:"logChannel"`
	AccountAgeDays int      `mapstructure:"accountAgeDays"`
	ApproverRoles  []string `mapstructure:"approverRoles"`
	DeniedRole     string   `mapstructure:"deniedRole"`
}

type RoleRestoreConfig struct {
	LogChannel   string `mapstructure:"logChannel"`
	RequiredRole string `mapstructure:"requiredRole"`
}

// RoleSyncConfig links exactly two guilds. RoleMappings maps a source-guild
// role ID to its counterpart in the target guild; each role ID participates
// in at most one pair.
type RoleSyncConfig struct {
	Enabled       bool              `mapstructure:"enabled"`
	SourceGuildID string            `mapstructure:"sourceGuildId"`
	TargetGuildID string            `mapstructure:"targetGuildId"`
	RoleMappings  map[string]string `mapstructure:"roleMappings"`
	LogChannelID  string            `mapstructure:"logChannelId"`
}

type RoleManagementConfig struct {
	AssignRole   AssignRoleConfig  `mapstructure:"assignRole"`
	UnassignRole UnassignLogConfig `mapstructure:"unassignRole"`
	RoleAll      RoleAllConfig     `mapstructure:"roleAll"`
	RoleRequest  RoleRequestLog    `mapstructure:"roleRequest"`
}

type AssignRoleConfig struct {
	AllowedRoles []string `mapstructure:"allowedRoles"`
	LogChannel   string   `mapstructure:"logChannel"`
}

type UnassignLogConfig struct {
	LogChannel string `mapstructure:"logChannel"`
}

type RoleAllConfig struct {
	AllowedRole string `mapstructure:"allowedRole"`
}

type RoleRequestLog struct {
	LogChannel string `mapstructure:"logChannel"`
}

type ModerationConfig struct {
	Mute MuteConfig `mapstructure:"mute"`
}

type MuteConfig struct {
	RoleID     string `mapstructure:"roleId"`
	LogChannel string `mapstructure:"logChannel"`
}

type VerificationConfig struct {
	VerifiedRoleID   string `mapstructure:"verifiedRoleId"`
	UnverifiedRoleID string `mapstructure:"unverifiedRoleId"`
	AdminRoleID      string `mapstructure:"adminRoleId"`
	LogChannelID     string `mapstructure:"logChannelId"`
}
