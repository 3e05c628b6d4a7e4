package government

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a fetch targets a row that does not exist.
// Callers decide how to handle absence; the store never substitutes
// defaults.
var ErrNotFound = errors.New("record not found")

// Init opens the governance database and ensures all tables exist.
func Init(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to governance database: %w", err)
	}

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS gov_configs (
			guild_id TEXT NOT NULL PRIMARY KEY,
			leader_user_id TEXT NOT NULL DEFAULT '',
			leader_role_id TEXT NOT NULL DEFAULT '',
			internal_affairs_account_id INTEGER NOT NULL DEFAULT 0,
			finance_account_id INTEGER NOT NULL DEFAULT 0,
			security_account_id INTEGER NOT NULL DEFAULT 0,
			central_bank_account_id INTEGER NOT NULL DEFAULT 0,
			citizen_role_id TEXT NOT NULL DEFAULT '',
			suspect_role_id TEXT NOT NULL DEFAULT '',
			auto_release_hours INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS department_settings (
			guild_id TEXT NOT NULL,
			department TEXT NOT NULL,
			role_id TEXT NOT NULL DEFAULT '',
			extra_role_ids TEXT NOT NULL DEFAULT '[]',
			welfare_amount INTEGER NOT NULL DEFAULT 0,
			welfare_interval_hours INTEGER NOT NULL DEFAULT 0,
			tax_basis TEXT NOT NULL DEFAULT '',
			tax_percent INTEGER NOT NULL DEFAULT 0,
			max_issuance_per_month INTEGER NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (guild_id, department)
		);`,
		`CREATE TABLE IF NOT EXISTS government_accounts (
			account_id INTEGER NOT NULL PRIMARY KEY,
			guild_id TEXT NOT NULL,
			department TEXT NOT NULL,
			balance INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS welfare_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			guild_id TEXT NOT NULL,
			recipient_id TEXT NOT NULL,
			admin_id TEXT NOT NULL,
			amount INTEGER NOT NULL,
			welfare_type TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL DEFAULT '',
			timestamp INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tax_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			guild_id TEXT NOT NULL,
			taxpayer_id TEXT NOT NULL,
			admin_id TEXT NOT NULL,
			taxable_amount INTEGER NOT NULL,
			tax_amount INTEGER NOT NULL,
			rate_percent INTEGER NOT NULL,
			period TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL DEFAULT '',
			timestamp INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS currency_issuances (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			guild_id TEXT NOT NULL,
			admin_id TEXT NOT NULL,
			amount INTEGER NOT NULL,
			period TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			timestamp INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS transfer_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			guild_id TEXT NOT NULL,
			from_department TEXT NOT NULL,
			to_department TEXT NOT NULL DEFAULT '',
			from_account_id INTEGER NOT NULL,
			to_account_id INTEGER NOT NULL,
			recipient_id TEXT NOT NULL DEFAULT '',
			admin_id TEXT NOT NULL,
			amount INTEGER NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			timestamp INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS identity_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			guild_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			user_username TEXT NOT NULL DEFAULT '',
			admin_id TEXT NOT NULL,
			action TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			timestamp INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_guild_dept ON government_accounts (guild_id, department);`,
		`CREATE INDEX IF NOT EXISTS idx_issuances_guild_period ON currency_issuances (guild_id, period);`,
		`CREATE INDEX IF NOT EXISTS idx_identity_guild_user ON identity_records (guild_id, user_id);`,
	}

	for _, schema := range schemas {
		if _, err := db.Exec(schema); err != nil {
			return nil, fmt.Errorf("failed to create governance tables: %w", err)
		}
	}

	return db, nil
}

func wrapNotFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}
