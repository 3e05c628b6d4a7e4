package government

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"gov-bot/economy"
	"gov-bot/model"
	govdb "gov-bot/utils/database/government"
)

// Reconciler bridges the cached governance balance and the authoritative
// economy balance. The cache always reflects the last known authoritative
// value; it is never advanced by applying deltas to stale cache state.
type Reconciler struct {
	db     *sqlx.DB
	ledger economy.Ledger
}

// NewReconciler wires a reconciler to the governance store and the economy
// ledger.
func NewReconciler(db *sqlx.DB, ledger economy.Ledger) *Reconciler {
	return &Reconciler{db: db, ledger: ledger}
}

// SyncBeforeDebit fetches both balances ahead of a debit and heals
// write-propagation drift: when the governance cache can cover the debit
// but the economy balance lags behind it, the gap is credited back to the
// economy ledger so the debit does not fail spuriously. If the healing
// credit itself fails, the economy balance is treated as equal to the
// governance balance rather than aborting the caller's operation.
func (r *Reconciler) SyncBeforeDebit(guildID string, accountID int64, required int64) (econBalance, govBalance int64, err error) {
	account, err := govdb.GetAccount(r.db, accountID)
	if err != nil {
		return 0, 0, storagef("failed to load account %d: %v", accountID, err)
	}
	govBalance = account.Balance

	accountStr := strconv.FormatInt(accountID, 10)
	econBalance, err = r.ledger.FetchBalance(guildID, accountStr)
	if err != nil {
		return 0, 0, storagef("failed to fetch economy balance for account %d: %v", accountID, err)
	}

	if govBalance >= required && econBalance < required && govBalance > econBalance {
		gap := govBalance - econBalance
		_, healErr := r.ledger.AdjustBalance(guildID, "system", accountStr, gap, "governance balance sync")
		if healErr != nil {
			log.Printf("Healing credit of %d for account %d failed, assuming governance balance: %v", gap, accountID, healErr)
			return govBalance, govBalance, nil
		}
		econBalance, err = r.ledger.FetchBalance(guildID, accountStr)
		if err != nil {
			return 0, 0, storagef("failed to re-read economy balance for account %d: %v", accountID, err)
		}
	}

	return econBalance, govBalance, nil
}

// ReconcileGuild sweeps every department account of a guild and returns the
// governance-minus-economy delta per department. Positive deltas are healed
// with a credit in both modes; strict mode also issues compensating debits
// so economy matches governance exactly. Strict sweeps are operator
// triggered, never implicit.
func (r *Reconciler) ReconcileGuild(guildID, actorID string, strict bool) (map[model.Department]int64, error) {
	deltas := make(map[model.Department]int64)

	for _, dept := range model.AllDepartments() {
		accounts, err := govdb.GetAccountsByDepartment(r.db, guildID, dept.Key())
		if err != nil {
			return nil, storagef("failed to load %s accounts: %v", dept.Key(), err)
		}
		if len(accounts) == 0 {
			continue
		}
		account := accounts[0]
		accountStr := strconv.FormatInt(account.AccountID, 10)

		econBalance, err := r.ledger.FetchBalance(guildID, accountStr)
		if err != nil {
			return nil, storagef("failed to fetch economy balance for account %d: %v", account.AccountID, err)
		}

		delta := account.Balance - econBalance
		deltas[dept] = delta

		reason := fmt.Sprintf("guild reconciliation by %s", actorID)
		if delta > 0 {
			if _, err := r.ledger.AdjustBalance(guildID, actorID, accountStr, delta, reason); err != nil {
				return deltas, storagef("failed healing credit for account %d: %v", account.AccountID, err)
			}
		} else if delta < 0 && strict {
			if _, err := r.ledger.AdjustBalance(guildID, actorID, accountStr, delta, reason); err != nil {
				return deltas, storagef("failed compensating debit for account %d: %v", account.AccountID, err)
			}
		}
	}

	return deltas, nil
}

// WriteBackBalance stores an authoritative post-operation balance into the
// governance cache, inside the caller's transaction scope.
func WriteBackBalance(e sqlx.Ext, accountID, balance int64) error {
	return govdb.UpdateAccountBalance(e, accountID, balance, time.Now().Unix())
}
