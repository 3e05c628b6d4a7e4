package government

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gov-bot/model"
)

func TestAccountDerivationIsDeterministic(t *testing.T) {
	guildID := int64(123456789012345678)
	for _, dept := range model.AllDepartments() {
		first := DepartmentAccountID(guildID, dept)
		second := DepartmentAccountID(guildID, dept)
		assert.Equal(t, first, second, "derivation for %s must not change between calls", dept.Key())
	}
	assert.Equal(t, MainAccountID(guildID), MainAccountID(guildID))
}

func TestAccountIDsDistinctPerDepartment(t *testing.T) {
	guildID := int64(987654321098765432)
	seen := make(map[int64]model.Department)
	for _, dept := range model.AllDepartments() {
		id := DepartmentAccountID(guildID, dept)
		prev, dup := seen[id]
		require.False(t, dup, "%s and %s derive the same account id", prev.Key(), dept.Key())
		seen[id] = dept
	}
}

func TestAccountIDsDistinctAcrossGuilds(t *testing.T) {
	// Adjacent snowflakes shifted by more than the department code range
	// never collide.
	a := int64(111111111111111111)
	b := a + 10
	for _, dept := range model.AllDepartments() {
		assert.NotEqual(t, DepartmentAccountID(a, dept), DepartmentAccountID(b, dept))
	}
}

func TestMainAndDepartmentBandsDisjoint(t *testing.T) {
	guildID := int64(123456789012345678)
	main := MainAccountID(guildID)
	for _, dept := range model.AllDepartments() {
		assert.NotEqual(t, main, DepartmentAccountID(guildID, dept))
	}
}

func TestParseGuildID(t *testing.T) {
	id, err := ParseGuildID("123456789012345678")
	require.NoError(t, err)
	assert.Equal(t, int64(123456789012345678), id)

	_, err = ParseGuildID("not-a-snowflake")
	assert.Error(t, err)
}
