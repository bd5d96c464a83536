package banrecords

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardian-bot/model"
)

func TestBanRecordLifecycle(t *testing.T) {
	db, err := Init(filepath.Join(t.TempDir(), "moderation.db"))
	require.NoError(t, err)
	defer db.Close()

	id, err := AddBanRecord(db, model.BanRecord{
		MessageID:     "m1",
		AdminID:       "admin",
		UserID:        "42",
		UserUsername:  "troublemaker",
		Reason:        "spam",
		Timestamp:     time.Now().Unix(),
		SuccessGuilds: `["A"]`,
		FailedGuilds:  `["B"]`,
		Status:        model.BanStatusActive,
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	records, err := GetBanRecordsByUserID(db, "42")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "spam", records[0].Reason)
	assert.Equal(t, model.BanStatusActive, records[0].Status)

	require.NoError(t, MarkBanStatus(db, "42", model.BanStatusRevoked))

	records, err = GetBanRecordsByUserID(db, "42")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.BanStatusRevoked, records[0].Status)
}
