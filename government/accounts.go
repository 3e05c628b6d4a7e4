package government

import (
	"fmt"
	"strconv"

	"gov-bot/model"
)

// Account ids are carved out of the signed 64-bit space by addition only.
// Guild ids are platform snowflakes approaching 10^18, so multiplying them
// would overflow; adding a band base keeps the result well inside int64
// range while the 10^18 gap between bands keeps them disjoint.
const (
	mainAccountBase = int64(2_000_000_000_000_000_000)
	deptAccountBase = int64(3_000_000_000_000_000_000)
)

// MainAccountID derives the organization's main account id for a guild.
// Deterministic across restarts: no randomness, no external state.
func MainAccountID(guildID int64) int64 {
	return mainAccountBase + guildID
}

// DepartmentAccountID derives the account id for a department within a
// guild. Unknown departments contribute code 0.
func DepartmentAccountID(guildID int64, dept model.Department) int64 {
	return deptAccountBase + guildID + dept.Code()
}

// ParseGuildID converts a platform guild id string to the integer form the
// derivation functions operate on.
func ParseGuildID(guildID string) (int64, error) {
	id, err := strconv.ParseInt(guildID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid guild id %q: %w", guildID, err)
	}
	return id, nil
}
