package model

// BanRecord is a row in the ban_records audit table: one executed global ban
// with its per-guild fan-out outcome.
type BanRecord struct {
	RecordID      int64  `db:"record_id"` // primary key, auto-increment
	MessageID     string `db:"message_id"`
	AdminID       string `db:"admin_id"`
	UserID        string `db:"user_id"`
	UserUsername  string `db:"user_username"`
	Reason        string `db:"reason"`
	Timestamp     int64  `db:"timestamp"`
	SuccessGuilds string `db:"success_guilds"` // JSON array of guild names
	FailedGuilds  string `db:"failed_guilds"`  // JSON array of guild names
	Status        string `db:"status"`         // "active", "revoked" or "lifted"
}

const (
	BanStatusActive  = "active"
	BanStatusRevoked = "revoked"
	BanStatusLifted  = "lifted"
)
