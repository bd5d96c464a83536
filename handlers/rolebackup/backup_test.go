package rolebackup

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardian-bot/model"
	"guardian-bot/store"
)

// snowflakeAt builds an ID whose embedded timestamp is t.
func snowflakeAt(t time.Time) string {
	const discordEpoch = 1420070400000
	ms := t.UnixMilli() - discordEpoch
	return fmt.Sprintf("%d", ms<<22)
}

type fakeAuditClient struct {
	entries map[int][]*discordgo.AuditLogEntry
	err     error
}

func (f *fakeAuditClient) GuildAuditLog(guildID, userID, beforeID string, actionType, limit int, _ ...discordgo.RequestOption) (*discordgo.GuildAuditLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &discordgo.GuildAuditLog{AuditLogEntries: f.entries[actionType]}, nil
}

func TestClassifyRemoval(t *testing.T) {
	now := time.Now()
	kickAction := int(discordgo.AuditLogActionMemberKick)
	banAction := int(discordgo.AuditLogActionMemberBanAdd)

	t.Run("recent kick entry", func(t *testing.T) {
		c := &fakeAuditClient{entries: map[int][]*discordgo.AuditLogEntry{
			kickAction: {{ID: snowflakeAt(now.Add(-time.Second)), TargetID: "42"}},
		}}
		assert.Equal(t, RemovalKick, ClassifyRemoval(c, "g1", "42", now))
	})

	t.Run("recent ban entry", func(t *testing.T) {
		c := &fakeAuditClient{entries: map[int][]*discordgo.AuditLogEntry{
			banAction: {{ID: snowflakeAt(now.Add(-time.Second)), TargetID: "42"}},
		}}
		assert.Equal(t, RemovalBan, ClassifyRemoval(c, "g1", "42", now))
	})

	t.Run("stale entry is not correlated", func(t *testing.T) {
		c := &fakeAuditClient{entries: map[int][]*discordgo.AuditLogEntry{
			kickAction: {{ID: snowflakeAt(now.Add(-time.Minute)), TargetID: "42"}},
		}}
		assert.Equal(t, RemovalLeave, ClassifyRemoval(c, "g1", "42", now))
	})

	t.Run("entry for another user is ignored", func(t *testing.T) {
		c := &fakeAuditClient{entries: map[int][]*discordgo.AuditLogEntry{
			kickAction: {{ID: snowflakeAt(now), TargetID: "other"}},
		}}
		assert.Equal(t, RemovalLeave, ClassifyRemoval(c, "g1", "42", now))
	})

	t.Run("audit failure degrades to leave", func(t *testing.T) {
		c := &fakeAuditClient{err: errors.New("missing access")}
		assert.Equal(t, RemovalLeave, ClassifyRemoval(c, "g1", "42", now))
	})
}

func TestSnapshotStoresAndPurges(t *testing.T) {
	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, st.PutRoleBackup(model.RoleBackup{
		UserID:    "old",
		GuildID:   "g1",
		Roles:     []string{"r1"},
		Timestamp: now.Add(-25 * time.Hour).Unix(),
	}))

	stored, err := Snapshot(st, "g1", &discordgo.User{ID: "42", Username: "troublemaker"}, []string{"r1", "r2"}, now)
	require.NoError(t, err)
	assert.True(t, stored)

	backup, ok, err := st.RoleBackup("g1", "42")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"r1", "r2"}, backup.Roles)

	_, ok, err = st.RoleBackup("g1", "old")
	require.NoError(t, err)
	assert.False(t, ok, "expired backup must be purged")
}

func TestSnapshotSkipsRolelessMembers(t *testing.T) {
	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	stored, err := Snapshot(st, "g1", &discordgo.User{ID: "42"}, nil, time.Now())
	require.NoError(t, err)
	assert.False(t, stored)
}

type fakeRoleClient struct {
	roles     []*discordgo.Role
	member    *discordgo.Member
	edited    *[]string
	memberErr error
}

func (f *fakeRoleClient) GuildRoles(guildID string, _ ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	return f.roles, nil
}

func (f *fakeRoleClient) GuildMember(guildID, userID string, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
	if f.memberErr != nil {
		return nil, f.memberErr
	}
	return f.member, nil
}

func (f *fakeRoleClient) GuildMemberEdit(guildID, userID string, data *discordgo.GuildMemberParams, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
	f.edited = data.Roles
	return f.member, nil
}

func TestRestoreAppliesValidRoles(t *testing.T) {
	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, st.PutRoleBackup(model.RoleBackup{
		UserID:    "42",
		GuildID:   "g1",
		Roles:     []string{"keep", "gone", "managed", "already"},
		Timestamp: now.Unix(),
	}))

	client := &fakeRoleClient{
		roles: []*discordgo.Role{
			{ID: "keep"},
			{ID: "managed", Managed: true},
			{ID: "already"},
		},
		member: &discordgo.Member{User: &discordgo.User{ID: "42"}, Roles: []string{"already"}},
	}

	outcome, err := Restore(client, st, "g1", "42", now)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Restored)
	assert.Equal(t, 2, outcome.Skipped, "deleted and managed roles are skipped")

	require.NotNil(t, client.edited)
	assert.Equal(t, []string{"already", "keep"}, *client.edited)

	_, ok, err := st.RoleBackup("g1", "42")
	require.NoError(t, err)
	assert.False(t, ok, "backup is consumed on restore")
}

func TestRestoreExpiredBackup(t *testing.T) {
	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, st.PutRoleBackup(model.RoleBackup{
		UserID:    "42",
		GuildID:   "g1",
		Roles:     []string{"r1"},
		Timestamp: now.Add(-25 * time.Hour).Unix(),
	}))

	_, err = Restore(&fakeRoleClient{}, st, "g1", "42", now)
	assert.Equal(t, errBackupExpired, err)

	_, ok, err := st.RoleBackup("g1", "42")
	require.NoError(t, err)
	assert.False(t, ok, "expired backup is dropped on the failed restore")
}

func TestRestoreMissingBackup(t *testing.T) {
	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	_, err = Restore(&fakeRoleClient{}, st, "g1", "42", time.Now())
	assert.Equal(t, errNoBackup, err)
}
