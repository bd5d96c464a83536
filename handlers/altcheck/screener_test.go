package altcheck

import (
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardian-bot/store"
)

// snowflakeAt builds a user ID whose embedded creation time is t.
func snowflakeAt(t time.Time) string {
	const discordEpoch = 1420070400000
	ms := t.UnixMilli() - discordEpoch
	return fmt.Sprintf("%d", ms<<22)
}

func TestAccountAge(t *testing.T) {
	now := time.Now()
	id := snowflakeAt(now.Add(-48 * time.Hour))

	age, err := AccountAge(id, now)
	require.NoError(t, err)
	assert.InDelta(t, 48*time.Hour, age, float64(time.Minute))
}

func TestShouldFlag(t *testing.T) {
	assert.True(t, ShouldFlag(3*24*time.Hour, 7))
	assert.False(t, ShouldFlag(7*24*time.Hour, 7))
	assert.False(t, ShouldFlag(30*24*time.Hour, 7))
}

func TestFlagOverwritesOnRejoin(t *testing.T) {
	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	first := time.Now().Add(-time.Hour)
	require.NoError(t, Flag(st, "g1", "42", 2, first))
	second := time.Now()
	require.NoError(t, Flag(st, "g1", "42", 3, second))

	pending, ok, err := st.PendingAltCheck("42")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, pending.AccountAgeDays)
	assert.Equal(t, second.Unix(), pending.JoinedAt)
}

func TestApproveClearsPendingWithoutRoleChanges(t *testing.T) {
	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, Flag(st, "g1", "42", 2, time.Now()))
	require.NoError(t, Approve(st, "42"))

	_, ok, err := st.PendingAltCheck("42")
	require.NoError(t, err)
	assert.False(t, ok)
}

type fakeDenyClient struct {
	edited *[]string
}

func (f *fakeDenyClient) GuildMemberEdit(guildID, userID string, data *discordgo.GuildMemberParams, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
	f.edited = data.Roles
	return &discordgo.Member{}, nil
}

func TestDenyLeavesExactlyTheDeniedRole(t *testing.T) {
	st, err := store.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, Flag(st, "g1", "42", 2, time.Now()))

	client := &fakeDenyClient{}
	require.NoError(t, Deny(client, st, "g1", "42", "denied-role"))

	require.NotNil(t, client.edited)
	assert.Equal(t, []string{"denied-role"}, *client.edited)

	_, ok, err := st.PendingAltCheck("42")
	require.NoError(t, err)
	assert.False(t, ok)
}
