package government

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"gov-bot/model"
)

func insertRecord(e sqlx.Ext, query string, arg interface{}, what string) (int64, error) {
	result, err := sqlx.NamedExec(e, query, arg)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s: %w", what, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for %s: %w", what, err)
	}
	return id, nil
}

// InsertWelfareRecord appends a welfare disbursement record and returns its id.
func InsertWelfareRecord(e sqlx.Ext, rec model.WelfareRecord) (int64, error) {
	query := `INSERT INTO welfare_records (guild_id, recipient_id, admin_id, amount, welfare_type, reason, timestamp)
		VALUES (:guild_id, :recipient_id, :admin_id, :amount, :welfare_type, :reason, :timestamp)`
	return insertRecord(e, query, rec, "welfare record")
}

// InsertTaxRecord appends a tax collection record and returns its id.
func InsertTaxRecord(e sqlx.Ext, rec model.TaxRecord) (int64, error) {
	query := `INSERT INTO tax_records (guild_id, taxpayer_id, admin_id, taxable_amount, tax_amount, rate_percent, period, reason, timestamp)
		VALUES (:guild_id, :taxpayer_id, :admin_id, :taxable_amount, :tax_amount, :rate_percent, :period, :reason, :timestamp)`
	return insertRecord(e, query, rec, "tax record")
}

// InsertCurrencyIssuance appends a currency issuance record and returns its id.
func InsertCurrencyIssuance(e sqlx.Ext, rec model.CurrencyIssuance) (int64, error) {
	query := `INSERT INTO currency_issuances (guild_id, admin_id, amount, period, reason, timestamp)
		VALUES (:guild_id, :admin_id, :amount, :period, :reason, :timestamp)`
	return insertRecord(e, query, rec, "currency issuance")
}

// InsertTransferRecord appends a transfer record and returns its id.
func InsertTransferRecord(e sqlx.Ext, rec model.TransferRecord) (int64, error) {
	query := `INSERT INTO transfer_records (guild_id, from_department, to_department, from_account_id, to_account_id, recipient_id, admin_id, amount, reason, timestamp)
		VALUES (:guild_id, :from_department, :to_department, :from_account_id, :to_account_id, :recipient_id, :admin_id, :amount, :reason, :timestamp)`
	return insertRecord(e, query, rec, "transfer record")
}

// InsertIdentityRecord appends an identity action record and returns its id.
func InsertIdentityRecord(e sqlx.Ext, rec model.IdentityRecord) (int64, error) {
	query := `INSERT INTO identity_records (guild_id, user_id, user_username, admin_id, action, reason, timestamp)
		VALUES (:guild_id, :user_id, :user_username, :admin_id, :action, :reason, :timestamp)`
	return insertRecord(e, query, rec, "identity record")
}

// SumIssuedInMonth returns the total currency issued for a guild in the
// given calendar month ("2006-01").
func SumIssuedInMonth(e sqlx.Ext, guildID, period string) (int64, error) {
	var sum int64
	err := sqlx.Get(e, &sum,
		"SELECT COALESCE(SUM(amount), 0) FROM currency_issuances WHERE guild_id = ? AND period = ?",
		guildID, period)
	if err != nil {
		return 0, fmt.Errorf("failed to sum issuance for %s in %s: %w", guildID, period, err)
	}
	return sum, nil
}

// GetLatestIdentityRecord returns the most recent identity record for a user
// among the given actions, or ErrNotFound.
func GetLatestIdentityRecord(e sqlx.Ext, guildID, userID string, actions []string) (*model.IdentityRecord, error) {
	query, args, err := sqlx.In(
		`SELECT * FROM identity_records WHERE guild_id = ? AND user_id = ? AND action IN (?)
		 ORDER BY timestamp DESC, id DESC LIMIT 1`, guildID, userID, actions)
	if err != nil {
		return nil, fmt.Errorf("failed to build identity record query: %w", err)
	}

	var rec model.IdentityRecord
	err = sqlx.Get(e, &rec, e.Rebind(query), args...)
	if err != nil {
		return nil, wrapNotFound(err, fmt.Sprintf("identity record for %s/%s", guildID, userID))
	}
	return &rec, nil
}

// ListWelfareRecords returns welfare records for a guild, newest first.
// limit <= 0 fetches everything.
func ListWelfareRecords(e sqlx.Ext, guildID string, limit, offset int) ([]model.WelfareRecord, error) {
	var recs []model.WelfareRecord
	err := sqlx.Select(e, &recs, paginate("SELECT * FROM welfare_records WHERE guild_id = ? ORDER BY timestamp DESC, id DESC", limit, offset), guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list welfare records for guild %s: %w", guildID, err)
	}
	return recs, nil
}

// ListTaxRecords returns tax records for a guild, newest first.
func ListTaxRecords(e sqlx.Ext, guildID string, limit, offset int) ([]model.TaxRecord, error) {
	var recs []model.TaxRecord
	err := sqlx.Select(e, &recs, paginate("SELECT * FROM tax_records WHERE guild_id = ? ORDER BY timestamp DESC, id DESC", limit, offset), guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax records for guild %s: %w", guildID, err)
	}
	return recs, nil
}

// ListCurrencyIssuances returns issuance records for a guild, newest first.
func ListCurrencyIssuances(e sqlx.Ext, guildID string, limit, offset int) ([]model.CurrencyIssuance, error) {
	var recs []model.CurrencyIssuance
	err := sqlx.Select(e, &recs, paginate("SELECT * FROM currency_issuances WHERE guild_id = ? ORDER BY timestamp DESC, id DESC", limit, offset), guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list currency issuances for guild %s: %w", guildID, err)
	}
	return recs, nil
}

// ListTransferRecords returns transfer records for a guild, newest first.
func ListTransferRecords(e sqlx.Ext, guildID string, limit, offset int) ([]model.TransferRecord, error) {
	var recs []model.TransferRecord
	err := sqlx.Select(e, &recs, paginate("SELECT * FROM transfer_records WHERE guild_id = ? ORDER BY timestamp DESC, id DESC", limit, offset), guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfer records for guild %s: %w", guildID, err)
	}
	return recs, nil
}

// ListIdentityRecords returns identity records for a guild, newest first.
func ListIdentityRecords(e sqlx.Ext, guildID string, limit, offset int) ([]model.IdentityRecord, error) {
	var recs []model.IdentityRecord
	err := sqlx.Select(e, &recs, paginate("SELECT * FROM identity_records WHERE guild_id = ? ORDER BY timestamp DESC, id DESC", limit, offset), guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list identity records for guild %s: %w", guildID, err)
	}
	return recs, nil
}

func paginate(query string, limit, offset int) string {
	if limit <= 0 {
		return query
	}
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", query, limit, offset)
}
