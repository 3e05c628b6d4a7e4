package government

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"gov-bot/economy"
	"gov-bot/model"
	govdb "gov-bot/utils/database/government"
)

// Actor identifies the user requesting an operation together with their
// current role set.
type Actor struct {
	ID    string
	Roles []string
}

// Engine performs the permission-gated, capped, atomic fund movements.
// Every operation follows the same shape: validate, authorize, resolve the
// effective account, sync before debits, then commit the authoritative
// transfer together with the audit record and cache update.
type Engine struct {
	db         *sqlx.DB
	ledger     economy.Ledger
	reconciler *Reconciler
}

// NewEngine wires an engine to the governance store and economy ledger.
func NewEngine(db *sqlx.DB, ledger economy.Ledger) *Engine {
	return &Engine{
		db:         db,
		ledger:     ledger,
		reconciler: NewReconciler(db, ledger),
	}
}

// Reconciler exposes the engine's reconciler for operator-triggered sweeps.
func (e *Engine) Reconciler() *Reconciler {
	return e.reconciler
}

// SetupGuild creates or updates a guild's government configuration and
// ensures all four department accounts exist. Account ids already present
// in storage are always reused; setup never mints a new id for an existing
// department.
func (e *Engine) SetupGuild(guildID, leaderUserID, leaderRoleID, citizenRoleID, suspectRoleID string, autoReleaseHours int) (*model.GovConfig, error) {
	if leaderUserID == "" && leaderRoleID == "" {
		return nil, validationf("leader must be a user id, a role id, or both")
	}
	numericGuildID, err := ParseGuildID(guildID)
	if err != nil {
		return nil, validationf("%v", err)
	}

	now := time.Now().Unix()
	cfg := &model.GovConfig{
		GuildID:          guildID,
		LeaderUserID:     leaderUserID,
		LeaderRoleID:     leaderRoleID,
		CitizenRoleID:    citizenRoleID,
		SuspectRoleID:    suspectRoleID,
		AutoReleaseHours: autoReleaseHours,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if existing, err := govdb.GetGovConfig(e.db, guildID); err == nil {
		cfg.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, govdb.ErrNotFound) {
		return nil, storagef("failed to load existing config: %v", err)
	}

	err = e.runInTx(func(tx *sqlx.Tx) error {
		for _, dept := range model.AllDepartments() {
			existing, err := govdb.GetAccountsByDepartment(tx, guildID, dept.Key())
			if err != nil {
				return storagef("failed to load %s accounts: %v", dept.Key(), err)
			}
			if len(existing) > 0 {
				cfg.SetAccountIDFor(dept, existing[0].AccountID)
				continue
			}
			accountID := DepartmentAccountID(numericGuildID, dept)
			account := model.GovernmentAccount{
				AccountID:  accountID,
				GuildID:    guildID,
				Department: dept.Key(),
				Balance:    0,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := govdb.UpsertAccount(tx, account); err != nil {
				return storagef("failed to create %s account: %v", dept.Key(), err)
			}
			cfg.SetAccountIDFor(dept, accountID)
		}
		if err := govdb.UpsertGovConfig(tx, *cfg); err != nil {
			return storagef("failed to save config: %v", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// DisburseWelfare pays welfare from the department account to a recipient.
func (e *Engine) DisburseWelfare(guildID string, dept model.Department, actor Actor, recipientID string, amount int64, welfareType, reason string) (*model.WelfareRecord, error) {
	if !dept.Valid() || !dept.Allows(model.OpWelfare) {
		return nil, validationf("department %s cannot disburse welfare", dept.DisplayName())
	}
	if amount <= 0 {
		return nil, validationf("welfare amount must be positive, got %d", amount)
	}
	if recipientID == "" {
		return nil, validationf("welfare recipient is required")
	}

	account, err := e.authorizeAndResolve(guildID, dept, actor)
	if err != nil {
		return nil, err
	}
	accountStr := strconv.FormatInt(account.AccountID, 10)

	econBalance, _, err := e.reconciler.SyncBeforeDebit(guildID, account.AccountID, amount)
	if err != nil {
		return nil, err
	}
	if econBalance < amount {
		return nil, fmt.Errorf("%w: account %d holds %d, needs %d", ErrInsufficientFunds, account.AccountID, econBalance, amount)
	}

	fromBalance, _, err := e.ledger.Transfer(guildID, accountStr, recipientID, amount, reason)
	if err != nil {
		return nil, e.translateLedgerErr(err)
	}

	record := model.WelfareRecord{
		GuildID:     guildID,
		RecipientID: recipientID,
		AdminID:     actor.ID,
		Amount:      amount,
		WelfareType: welfareType,
		Reason:      reason,
		Timestamp:   time.Now().Unix(),
	}
	err = e.runInTx(func(tx *sqlx.Tx) error {
		id, err := govdb.InsertWelfareRecord(tx, record)
		if err != nil {
			return err
		}
		record.ID = id
		return WriteBackBalance(tx, account.AccountID, fromBalance)
	})
	if err != nil {
		e.compensateTransfer(guildID, recipientID, accountStr, amount, "welfare disbursement rollback")
		return nil, storagef("failed to record welfare disbursement: %v", err)
	}
	return &record, nil
}

// CollectTax moves floor(taxableAmount * ratePercent / 100) from the
// taxpayer into the department account.
func (e *Engine) CollectTax(guildID string, dept model.Department, actor Actor, taxpayerID string, taxableAmount, ratePercent int64, period, reason string) (*model.TaxRecord, error) {
	if !dept.Valid() || !dept.Allows(model.OpTax) {
		return nil, validationf("department %s cannot collect tax", dept.DisplayName())
	}
	if taxableAmount <= 0 {
		return nil, validationf("taxable amount must be positive, got %d", taxableAmount)
	}
	if ratePercent <= 0 || ratePercent > 100 {
		return nil, validationf("tax rate must be within (0, 100], got %d", ratePercent)
	}
	if taxpayerID == "" {
		return nil, validationf("taxpayer is required")
	}
	taxAmount := taxableAmount * ratePercent / 100
	if taxAmount <= 0 {
		return nil, validationf("computed tax for %d at %d%% is zero", taxableAmount, ratePercent)
	}

	account, err := e.authorizeAndResolve(guildID, dept, actor)
	if err != nil {
		return nil, err
	}
	accountStr := strconv.FormatInt(account.AccountID, 10)

	_, toBalance, err := e.ledger.Transfer(guildID, taxpayerID, accountStr, taxAmount, reason)
	if err != nil {
		return nil, e.translateLedgerErr(err)
	}

	record := model.TaxRecord{
		GuildID:       guildID,
		TaxpayerID:    taxpayerID,
		AdminID:       actor.ID,
		TaxableAmount: taxableAmount,
		TaxAmount:     taxAmount,
		RatePercent:   ratePercent,
		Period:        period,
		Reason:        reason,
		Timestamp:     time.Now().Unix(),
	}
	err = e.runInTx(func(tx *sqlx.Tx) error {
		id, err := govdb.InsertTaxRecord(tx, record)
		if err != nil {
			return err
		}
		record.ID = id
		return WriteBackBalance(tx, account.AccountID, toBalance)
	})
	if err != nil {
		e.compensateTransfer(guildID, accountStr, taxpayerID, taxAmount, "tax collection rollback")
		return nil, storagef("failed to record tax collection: %v", err)
	}
	return &record, nil
}

// IssueCurrency credits newly created money into the department account,
// subject to the configured monthly cap. period defaults to the current
// calendar month.
func (e *Engine) IssueCurrency(guildID string, dept model.Department, actor Actor, amount int64, reason, period string) (*model.CurrencyIssuance, error) {
	if !dept.Valid() || !dept.Allows(model.OpIssuance) {
		return nil, validationf("department %s cannot issue currency", dept.DisplayName())
	}
	if amount <= 0 {
		return nil, validationf("issuance amount must be positive, got %d", amount)
	}
	if period == "" {
		period = time.Now().Format("2006-01")
	}

	account, err := e.authorizeAndResolve(guildID, dept, actor)
	if err != nil {
		return nil, err
	}
	accountStr := strconv.FormatInt(account.AccountID, 10)

	var monthlyCap int64
	setting, err := govdb.GetDepartmentSetting(e.db, guildID, dept.Key())
	if err == nil {
		monthlyCap = setting.MaxIssuancePerMonth
	} else if !errors.Is(err, govdb.ErrNotFound) {
		return nil, storagef("failed to load %s setting: %v", dept.Key(), err)
	}
	if monthlyCap > 0 {
		issued, err := govdb.SumIssuedInMonth(e.db, guildID, period)
		if err != nil {
			return nil, storagef("failed to sum issuance for %s: %v", period, err)
		}
		if issued+amount > monthlyCap {
			return nil, fmt.Errorf("%w: %d issued in %s, requested %d, cap %d", ErrMonthlyIssuanceLimit, issued, period, amount, monthlyCap)
		}
	}

	newBalance, err := e.ledger.AdjustBalance(guildID, actor.ID, accountStr, amount, reason)
	if err != nil {
		return nil, storagef("failed to credit issuance: %v", err)
	}

	record := model.CurrencyIssuance{
		GuildID:   guildID,
		AdminID:   actor.ID,
		Amount:    amount,
		Period:    period,
		Reason:    reason,
		Timestamp: time.Now().Unix(),
	}
	err = e.runInTx(func(tx *sqlx.Tx) error {
		id, err := govdb.InsertCurrencyIssuance(tx, record)
		if err != nil {
			return err
		}
		record.ID = id
		return WriteBackBalance(tx, account.AccountID, newBalance)
	})
	if err != nil {
		e.compensateAdjust(guildID, accountStr, -amount, "currency issuance rollback")
		return nil, storagef("failed to record currency issuance: %v", err)
	}
	return &record, nil
}

// TransferBetweenDepartments moves funds between two department accounts.
// Permission is checked against the source department only.
func (e *Engine) TransferBetweenDepartments(guildID string, from, to model.Department, actor Actor, amount int64, reason string) (*model.TransferRecord, error) {
	if !from.Valid() || !to.Valid() {
		return nil, validationf("unknown department in transfer")
	}
	if from == to {
		return nil, validationf("cannot transfer from %s to itself", from.DisplayName())
	}
	if amount <= 0 {
		return nil, validationf("transfer amount must be positive, got %d", amount)
	}

	fromAccount, err := e.authorizeAndResolve(guildID, from, actor)
	if err != nil {
		return nil, err
	}
	cfg, err := e.config(guildID)
	if err != nil {
		return nil, err
	}
	toAccount, err := e.resolveAccount(cfg, to)
	if err != nil {
		return nil, err
	}
	fromStr := strconv.FormatInt(fromAccount.AccountID, 10)
	toStr := strconv.FormatInt(toAccount.AccountID, 10)

	econBalance, _, err := e.reconciler.SyncBeforeDebit(guildID, fromAccount.AccountID, amount)
	if err != nil {
		return nil, err
	}
	if econBalance < amount {
		return nil, fmt.Errorf("%w: account %d holds %d, needs %d", ErrInsufficientFunds, fromAccount.AccountID, econBalance, amount)
	}

	// Post-transfer cache values come from the authoritative result, never
	// from stale cache arithmetic.
	fromBalance, toBalance, err := e.ledger.Transfer(guildID, fromStr, toStr, amount, reason)
	if err != nil {
		return nil, e.translateLedgerErr(err)
	}

	record := model.TransferRecord{
		GuildID:        guildID,
		FromDepartment: from.Key(),
		ToDepartment:   to.Key(),
		FromAccountID:  fromAccount.AccountID,
		ToAccountID:    toAccount.AccountID,
		AdminID:        actor.ID,
		Amount:         amount,
		Reason:         reason,
		Timestamp:      time.Now().Unix(),
	}
	err = e.runInTx(func(tx *sqlx.Tx) error {
		id, err := govdb.InsertTransferRecord(tx, record)
		if err != nil {
			return err
		}
		record.ID = id
		if err := WriteBackBalance(tx, fromAccount.AccountID, fromBalance); err != nil {
			return err
		}
		return WriteBackBalance(tx, toAccount.AccountID, toBalance)
	})
	if err != nil {
		e.compensateTransfer(guildID, toStr, fromStr, amount, "interdepartment transfer rollback")
		return nil, storagef("failed to record interdepartment transfer: %v", err)
	}
	return &record, nil
}

// TransferDepartmentToUser moves funds from a department account to an
// individual member account.
func (e *Engine) TransferDepartmentToUser(guildID string, from model.Department, actor Actor, recipientID string, amount int64, reason string) (*model.TransferRecord, error) {
	if !from.Valid() {
		return nil, validationf("unknown department in transfer")
	}
	if recipientID == "" {
		return nil, validationf("transfer recipient is required")
	}
	if amount <= 0 {
		return nil, validationf("transfer amount must be positive, got %d", amount)
	}

	fromAccount, err := e.authorizeAndResolve(guildID, from, actor)
	if err != nil {
		return nil, err
	}
	fromStr := strconv.FormatInt(fromAccount.AccountID, 10)

	econBalance, _, err := e.reconciler.SyncBeforeDebit(guildID, fromAccount.AccountID, amount)
	if err != nil {
		return nil, err
	}
	if econBalance < amount {
		return nil, fmt.Errorf("%w: account %d holds %d, needs %d", ErrInsufficientFunds, fromAccount.AccountID, econBalance, amount)
	}

	fromBalance, _, err := e.ledger.Transfer(guildID, fromStr, recipientID, amount, reason)
	if err != nil {
		return nil, e.translateLedgerErr(err)
	}

	record := model.TransferRecord{
		GuildID:        guildID,
		FromDepartment: from.Key(),
		FromAccountID:  fromAccount.AccountID,
		RecipientID:    recipientID,
		AdminID:        actor.ID,
		Amount:         amount,
		Reason:         reason,
		Timestamp:      time.Now().Unix(),
	}
	err = e.runInTx(func(tx *sqlx.Tx) error {
		id, err := govdb.InsertTransferRecord(tx, record)
		if err != nil {
			return err
		}
		record.ID = id
		return WriteBackBalance(tx, fromAccount.AccountID, fromBalance)
	})
	if err != nil {
		e.compensateTransfer(guildID, recipientID, fromStr, amount, "department transfer rollback")
		return nil, storagef("failed to record department transfer: %v", err)
	}
	return &record, nil
}

func (e *Engine) config(guildID string) (*model.GovConfig, error) {
	cfg, err := govdb.GetGovConfig(e.db, guildID)
	if err != nil {
		if errors.Is(err, govdb.ErrNotFound) {
			return nil, fmt.Errorf("%w: guild %s", ErrNotConfigured, guildID)
		}
		return nil, storagef("failed to load config for guild %s: %v", guildID, err)
	}
	return cfg, nil
}

func (e *Engine) authorizeAndResolve(guildID string, dept model.Department, actor Actor) (*model.GovernmentAccount, error) {
	cfg, err := e.config(guildID)
	if err != nil {
		return nil, err
	}
	ok, err := HasDepartmentAccess(e.db, guildID, actor.ID, dept, actor.Roles)
	if err != nil {
		return nil, storagef("failed permission check: %v", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s may not act for %s", ErrPermissionDenied, actor.ID, dept.DisplayName())
	}
	return e.resolveAccount(cfg, dept)
}

// resolveAccount picks the effective account for a department: the id
// recorded in configuration when it exists, otherwise the duplicate with
// the largest balance (most recently updated on ties), otherwise a freshly
// derived zero-balance account.
func (e *Engine) resolveAccount(cfg *model.GovConfig, dept model.Department) (*model.GovernmentAccount, error) {
	if preferred := cfg.AccountIDFor(dept); preferred != 0 {
		account, err := govdb.GetAccount(e.db, preferred)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, govdb.ErrNotFound) {
			return nil, storagef("failed to load account %d: %v", preferred, err)
		}
	}

	accounts, err := govdb.GetAccountsByDepartment(e.db, cfg.GuildID, dept.Key())
	if err != nil {
		return nil, storagef("failed to load %s accounts: %v", dept.Key(), err)
	}
	if len(accounts) > 0 {
		return &accounts[0], nil
	}

	numericGuildID, err := ParseGuildID(cfg.GuildID)
	if err != nil {
		return nil, validationf("%v", err)
	}
	now := time.Now().Unix()
	account := model.GovernmentAccount{
		AccountID:  DepartmentAccountID(numericGuildID, dept),
		GuildID:    cfg.GuildID,
		Department: dept.Key(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := govdb.UpsertAccount(e.db, account); err != nil {
		return nil, storagef("failed to create %s account: %v", dept.Key(), err)
	}
	return &account, nil
}

func (e *Engine) runInTx(fn func(tx *sqlx.Tx) error) error {
	tx, err := e.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (e *Engine) translateLedgerErr(err error) error {
	if errors.Is(err, economy.ErrInsufficientBalance) {
		return fmt.Errorf("%w: economy ledger rejected the transfer", ErrInsufficientFunds)
	}
	return storagef("economy transfer failed: %v", err)
}

// compensateTransfer reverses an already-applied economy transfer after the
// local commit failed. Best effort: a failed reversal is logged for manual
// repair, the caller still reports the storage failure.
func (e *Engine) compensateTransfer(guildID, fromID, toID string, amount int64, reason string) {
	if _, _, err := e.ledger.Transfer(guildID, fromID, toID, amount, reason); err != nil {
		log.Printf("Compensating transfer of %d from %s to %s in guild %s failed: %v", amount, fromID, toID, guildID, err)
	}
}

func (e *Engine) compensateAdjust(guildID, targetID string, amount int64, reason string) {
	if _, err := e.ledger.AdjustBalance(guildID, "system", targetID, amount, reason); err != nil {
		log.Printf("Compensating adjustment of %d for %s in guild %s failed: %v", amount, targetID, guildID, err)
	}
}
