package globalban

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardian-bot/store"
)

type fakeBanClient struct {
	names      map[string]string
	banErrs    map[string]error
	unbanErrs  map[string]error
	banCalls   []string
	unbanCalls []string
}

func (f *fakeBanClient) Guild(guildID string, _ ...discordgo.RequestOption) (*discordgo.Guild, error) {
	if name, ok := f.names[guildID]; ok {
		return &discordgo.Guild{ID: guildID, Name: name}, nil
	}
	return nil, errors.New("unknown guild")
}

func (f *fakeBanClient) GuildBanCreateWithReason(guildID, userID, reason string, days int, _ ...discordgo.RequestOption) error {
	f.banCalls = append(f.banCalls, guildID)
	return f.banErrs[guildID]
}

func (f *fakeBanClient) GuildBanDelete(guildID, userID string, _ ...discordgo.RequestOption) error {
	f.unbanCalls = append(f.unbanCalls, guildID)
	return f.unbanErrs[guildID]
}

func unknownBanErr() error {
	return &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: 10026, Message: "Unknown Ban"}}
}

func TestFanOutBanPartialFailure(t *testing.T) {
	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	added, err := st.AddBan("42")
	require.NoError(t, err)
	require.True(t, added)

	client := &fakeBanClient{
		names:   map[string]string{"A": "Alpha", "B": "Beta"},
		banErrs: map[string]error{"B": errors.New("missing permissions")},
	}

	result := FanOutBan(client, []string{"A", "B"}, "42", "test")

	assert.Equal(t, []string{"Alpha"}, result.Success)
	assert.Equal(t, []string{"Beta"}, result.Failed)
	assert.Equal(t, []string{"A", "B"}, client.banCalls, "a guild failure must not abort the sweep")

	bans, err := st.BanList()
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, bans)
}

func TestFanOutBanFallsBackToGuildID(t *testing.T) {
	client := &fakeBanClient{names: map[string]string{}}
	result := FanOutBan(client, []string{"A"}, "42", "test")
	assert.Equal(t, []string{"A"}, result.Success)
}

func TestFanOutUnbanToleratesUnknownBan(t *testing.T) {
	client := &fakeBanClient{
		names: map[string]string{"A": "Alpha", "B": "Beta", "C": "Gamma"},
		unbanErrs: map[string]error{
			"B": unknownBanErr(),
			"C": errors.New("missing permissions"),
		},
	}

	result := FanOutUnban(client, []string{"A", "B", "C"}, "42")

	assert.Equal(t, []string{"Alpha"}, result.Success)
	assert.Equal(t, []string{"Gamma"}, result.Failed, "unknown ban is not a failure")
	assert.Len(t, client.unbanCalls, 3)
}

func TestBanUnbanRegistryRoundTrip(t *testing.T) {
	st, err := store.New(t.TempDir())
	require.NoError(t, err)

	added, err := st.AddBan("7")
	require.NoError(t, err)
	assert.True(t, added)

	banned, err := st.IsBanned("7")
	require.NoError(t, err)
	assert.True(t, banned)

	removed, err := st.RemoveBan("7")
	require.NoError(t, err)
	assert.True(t, removed)

	banned, err = st.IsBanned("7")
	require.NoError(t, err)
	assert.False(t, banned)
}
