package government

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"gov-bot/model"
)

// UpsertAccount inserts an account snapshot, or refreshes balance and
// updated_at when the account already exists.
func UpsertAccount(e sqlx.Ext, account model.GovernmentAccount) error {
	query := `INSERT INTO government_accounts (account_id, guild_id, department, balance, created_at, updated_at)
		VALUES (:account_id, :guild_id, :department, :balance, :created_at, :updated_at)
		ON CONFLICT(account_id) DO UPDATE SET
			balance = excluded.balance,
			updated_at = excluded.updated_at`

	if _, err := sqlx.NamedExec(e, query, account); err != nil {
		return fmt.Errorf("failed to upsert account %d: %w", account.AccountID, err)
	}
	return nil
}

// GetAccount fetches one account snapshot by id, or ErrNotFound.
func GetAccount(e sqlx.Ext, accountID int64) (*model.GovernmentAccount, error) {
	var account model.GovernmentAccount
	err := sqlx.Get(e, &account, "SELECT * FROM government_accounts WHERE account_id = ?", accountID)
	if err != nil {
		return nil, wrapNotFound(err, fmt.Sprintf("account %d", accountID))
	}
	return &account, nil
}

// GetAccountsByDepartment fetches every account recorded for a (guild,
// department), largest balance first, most recently updated first on ties.
// Historical derivation changes can leave duplicates; this ordering is the
// tie-break callers use to pick the effective account.
func GetAccountsByDepartment(e sqlx.Ext, guildID, department string) ([]model.GovernmentAccount, error) {
	var accounts []model.GovernmentAccount
	err := sqlx.Select(e, &accounts,
		`SELECT * FROM government_accounts WHERE guild_id = ? AND department = ?
		 ORDER BY balance DESC, updated_at DESC`, guildID, department)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts for %s/%s: %w", guildID, department, err)
	}
	return accounts, nil
}

// ListAccounts fetches all account snapshots for a guild.
func ListAccounts(e sqlx.Ext, guildID string) ([]model.GovernmentAccount, error) {
	var accounts []model.GovernmentAccount
	err := sqlx.Select(e, &accounts,
		"SELECT * FROM government_accounts WHERE guild_id = ? ORDER BY department", guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for guild %s: %w", guildID, err)
	}
	return accounts, nil
}

// UpdateAccountBalance writes an authoritative balance into the cache.
func UpdateAccountBalance(e sqlx.Ext, accountID, balance, now int64) error {
	result, err := e.Exec("UPDATE government_accounts SET balance = ?, updated_at = ? WHERE account_id = ?",
		balance, now, accountID)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %d: %w", accountID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for account %d: %w", accountID, err)
	}
	if rows == 0 {
		return fmt.Errorf("balance update for account %d: %w", accountID, ErrNotFound)
	}
	return nil
}
