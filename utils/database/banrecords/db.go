package banrecords

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Init opens the moderation database and ensures the ban_records table
// exists.
func Init(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS ban_records (
	          record_id INTEGER PRIMARY KEY AUTOINCREMENT,
	          message_id TEXT NOT NULL,
	          admin_id TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          user_username TEXT NOT NULL,
	          reason TEXT NOT NULL,
	          timestamp INTEGER NOT NULL,
	          success_guilds TEXT DEFAULT '[]',
	          failed_guilds TEXT DEFAULT '[]',
	          status TEXT DEFAULT 'active'
	      );`
	if _, err = db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create ban_records table: %w", err)
	}

	return db, nil
}
