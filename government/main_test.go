package government

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"gov-bot/economy"
	govdb "gov-bot/utils/database/government"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := govdb.Init(filepath.Join(t.TempDir(), "gov.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// fakeLedger is an in-memory authoritative ledger. Balances are keyed by
// account id string, the same ids the engine sends over the wire.
type fakeLedger struct {
	balances map[string]int64

	failFetch    bool
	failAdjust   bool
	failTransfer error

	adjustCalls   int
	transferCalls int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{balances: make(map[string]int64)}
}

func (f *fakeLedger) FetchBalance(guildID, accountID string) (int64, error) {
	if f.failFetch {
		return 0, errors.New("ledger unavailable")
	}
	return f.balances[accountID], nil
}

func (f *fakeLedger) AdjustBalance(guildID, actorID, targetID string, amount int64, reason string) (int64, error) {
	f.adjustCalls++
	if f.failAdjust {
		return 0, errors.New("ledger unavailable")
	}
	f.balances[targetID] += amount
	return f.balances[targetID], nil
}

func (f *fakeLedger) Transfer(guildID, fromID, toID string, amount int64, reason string) (int64, int64, error) {
	f.transferCalls++
	if f.failTransfer != nil {
		return 0, 0, f.failTransfer
	}
	if f.balances[fromID] < amount {
		return 0, 0, economy.ErrInsufficientBalance
	}
	f.balances[fromID] -= amount
	f.balances[toID] += amount
	return f.balances[fromID], f.balances[toID], nil
}
