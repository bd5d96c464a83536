package banrecords

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"guardian-bot/model"
)

// AddBanRecord inserts a new ban record and returns its ID.
func AddBanRecord(db *sqlx.DB, record model.BanRecord) (int64, error) {
	query := `INSERT INTO ban_records (message_id, admin_id, user_id, user_username, reason, timestamp, success_guilds, failed_guilds, status)
			  VALUES (:message_id, :admin_id, :user_id, :user_username, :reason, :timestamp, :success_guilds, :failed_guilds, :status)`

	result, err := db.NamedExec(query, record)
	if err != nil {
		return 0, fmt.Errorf("failed to insert ban record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

// GetBanRecordsByUserID retrieves ban records for a user, newest first.
func GetBanRecordsByUserID(db *sqlx.DB, userID string) ([]model.BanRecord, error) {
	var records []model.BanRecord
	query := "SELECT * FROM ban_records WHERE user_id = ? ORDER BY timestamp DESC"
	if err := db.Select(&records, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get ban records for user %s: %w", userID, err)
	}
	return records, nil
}

// MarkBanStatus updates the status of every active record for a user, used
// when a ban is lifted or revoked.
func MarkBanStatus(db *sqlx.DB, userID, status string) error {
	query := "UPDATE ban_records SET status = ? WHERE user_id = ? AND status = ?"
	if _, err := db.Exec(query, status, userID, model.BanStatusActive); err != nil {
		return fmt.Errorf("failed to update ban status for user %s: %w", userID, err)
	}
	return nil
}
