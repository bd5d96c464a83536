package rolesync

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSyncClient struct {
	members map[string]map[string][]string // guildID -> userID -> roles
}

func (f *fakeSyncClient) GuildMember(guildID, userID string, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
	roles, ok := f.members[guildID][userID]
	if !ok {
		return nil, errors.New("unknown member")
	}
	return &discordgo.Member{User: &discordgo.User{ID: userID}, Roles: roles}, nil
}

func (f *fakeSyncClient) GuildMemberRoleAdd(guildID, userID, roleID string, _ ...discordgo.RequestOption) error {
	f.members[guildID][userID] = append(f.members[guildID][userID], roleID)
	return nil
}

func (f *fakeSyncClient) GuildMemberRoleRemove(guildID, userID, roleID string, _ ...discordgo.RequestOption) error {
	roles := f.members[guildID][userID]
	kept := roles[:0]
	for _, id := range roles {
		if id != roleID {
			kept = append(kept, id)
		}
	}
	f.members[guildID][userID] = kept
	return nil
}

func TestCounterpartBothDirections(t *testing.T) {
	m := Mapping{"src1": "dst1"}

	paired, ok := m.Counterpart("src1")
	assert.True(t, ok)
	assert.Equal(t, "dst1", paired)

	paired, ok = m.Counterpart("dst1")
	assert.True(t, ok)
	assert.Equal(t, "src1", paired)

	_, ok = m.Counterpart("unmapped")
	assert.False(t, ok)
}

func TestDiff(t *testing.T) {
	d := Diff([]string{"a", "b"}, []string{"b", "c"})
	assert.Equal(t, []string{"c"}, d.Added)
	assert.Equal(t, []string{"a"}, d.Removed)

	d = Diff([]string{"a"}, []string{"a"})
	assert.Empty(t, d.Added)
	assert.Empty(t, d.Removed)
}

func TestSyncMirrorsMappedRoles(t *testing.T) {
	client := &fakeSyncClient{members: map[string]map[string][]string{
		"target": {"u1": {"old-dst"}},
	}}
	mapping := Mapping{"new-src": "new-dst", "old-src": "old-dst"}

	changes, err := Sync(client, mapping, "target", "u1", Delta{
		Added:   []string{"new-src", "unmapped"},
		Removed: []string{"old-src"},
	})
	require.NoError(t, err)

	assert.Equal(t, []Change{
		{GuildID: "target", RoleID: "new-dst", Added: true},
		{GuildID: "target", RoleID: "old-dst", Added: false},
	}, changes)
	assert.Equal(t, []string{"new-dst"}, client.members["target"]["u1"])
}

// The echo event produced by a mirror write must stabilize after one hop.
func TestSyncStabilizesAfterOneHop(t *testing.T) {
	client := &fakeSyncClient{members: map[string]map[string][]string{
		"source": {"u1": {"src1"}},
		"target": {"u1": {}},
	}}
	mapping := Mapping{"src1": "dst1"}

	// Grant in source, mirror to target.
	changes, err := Sync(client, mapping, "target", "u1", Delta{Added: []string{"src1"}})
	require.NoError(t, err)
	require.Len(t, changes, 1)

	// The mirror write raises an echo event in the target guild; replaying
	// it back at the source must be a no-op because source already matches.
	changes, err = Sync(client, mapping, "source", "u1", Delta{Added: []string{"dst1"}})
	require.NoError(t, err)
	assert.Empty(t, changes)

	assert.Equal(t, []string{"src1"}, client.members["source"]["u1"])
	assert.Equal(t, []string{"dst1"}, client.members["target"]["u1"])
}

func TestSyncSkipsMembersNotInBothGuilds(t *testing.T) {
	client := &fakeSyncClient{members: map[string]map[string][]string{
		"target": {},
	}}

	changes, err := Sync(client, Mapping{"a": "b"}, "target", "ghost", Delta{Added: []string{"a"}})
	require.NoError(t, err)
	assert.Empty(t, changes)
}
