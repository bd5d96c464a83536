package store

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardian-bot/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestGetMissingDocument(t *testing.T) {
	s := newTestStore(t)
	var v []string
	err := s.Get("nope", &v)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Put("doc", map[string]string{"a": "b"}))

	got := make(map[string]string)
	require.NoError(t, s.Get("doc", &got))
	assert.Equal(t, map[string]string{"a": "b"}, got)

	// No stray temp file left behind.
	_, err := os.Stat(filepath.Join(s.dir, "doc.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestBanRegistryRoundTrip(t *testing.T) {
	s := newTestStore(t)

	added, err := s.AddBan("42")
	require.NoError(t, err)
	assert.True(t, added)

	// Duplicate add is rejected: a user appears at most once.
	added, err = s.AddBan("42")
	require.NoError(t, err)
	assert.False(t, added)

	banned, err := s.IsBanned("42")
	require.NoError(t, err)
	assert.True(t, banned)

	removed, err := s.RemoveBan("42")
	require.NoError(t, err)
	assert.True(t, removed)

	banned, err = s.IsBanned("42")
	require.NoError(t, err)
	assert.False(t, banned)

	removed, err = s.RemoveBan("42")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	s := newTestStore(t)

	ids := []string{"1", "2", "3", "4", "5", "6", "7", "8"}
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := s.AddBan(id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	bans, err := s.BanList()
	require.NoError(t, err)
	assert.Len(t, bans, len(ids))
}

func TestRoleBackupOverwriteAndPurge(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	require.NoError(t, s.PutRoleBackup(model.RoleBackup{
		UserID: "5", GuildID: "G", Roles: []string{"r1"}, Timestamp: now.Add(-25 * time.Hour).Unix(),
	}))
	// A new backup overwrites the old one for the same key.
	require.NoError(t, s.PutRoleBackup(model.RoleBackup{
		UserID: "5", GuildID: "G", Roles: []string{"r1", "r2"}, Timestamp: now.Add(-25 * time.Hour).Unix(),
	}))

	b, ok, err := s.RoleBackup("G", "5")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"r1", "r2"}, b.Roles)

	require.NoError(t, s.PutRoleBackup(model.RoleBackup{
		UserID: "6", GuildID: "G", Roles: []string{"r3"}, Timestamp: now.Unix(),
	}))

	purged, err := s.PurgeExpiredBackups(now)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, ok, err = s.RoleBackup("G", "5")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.RoleBackup("G", "6")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPendingAltCheckOverwrites(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.PutPendingAltCheck(model.PendingAltCheck{UserID: "9", GuildID: "G", AccountAgeDays: 3}))
	require.NoError(t, s.PutPendingAltCheck(model.PendingAltCheck{UserID: "9", GuildID: "G", AccountAgeDays: 4}))

	p, ok, err := s.PendingAltCheck("9")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, p.AccountAgeDays)

	require.NoError(t, s.DeletePendingAltCheck("9"))
	_, ok, err = s.PendingAltCheck("9")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting again is harmless.
	require.NoError(t, s.DeletePendingAltCheck("9"))
}

func TestLinkPermissionsUpdate(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateLinkPermissions(func(perms *model.LinkPermissions) error {
		perms.AllowedUsers = append(perms.AllowedUsers, "u1")
		perms.AllowedRoles["G"] = []string{"r1"}
		return nil
	})
	require.NoError(t, err)

	perms, err := s.LinkPermissions()
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, perms.AllowedUsers)
	assert.Equal(t, []string{"r1"}, perms.AllowedRoles["G"])
}
