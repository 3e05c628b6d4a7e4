// Package economy talks to the external authoritative balance store. The
// governance cache mirrors it but never replaces it as the source of truth.
package economy

import "errors"

// ErrInsufficientBalance is returned by Transfer when the source account
// cannot cover the amount. The treasury core translates it into its own
// insufficient-funds taxonomy.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Ledger is the authoritative balance store. Account and member ids share
// one id space on the economy side, so both are passed as strings.
type Ledger interface {
	// FetchBalance reads the current balance of an account.
	FetchBalance(guildID, accountID string) (int64, error)
	// AdjustBalance credits (positive) or debits (negative) an account and
	// returns the new balance.
	AdjustBalance(guildID, actorID, targetID string, amount int64, reason string) (int64, error)
	// Transfer moves amount from one account to another and returns both
	// post-transfer balances.
	Transfer(guildID, fromID, toID string, amount int64, reason string) (int64, int64, error)
}
