package government

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gov-bot/model"
	govdb "gov-bot/utils/database/government"
)

func TestIsLeaderFailsClosedWithoutConfig(t *testing.T) {
	db := newTestDB(t)

	ok, err := IsLeader(db, "123", "anyone", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsLeaderByUserAndRole(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().Unix()
	require.NoError(t, govdb.UpsertGovConfig(db, model.GovConfig{
		GuildID:      "123",
		LeaderUserID: "president",
		LeaderRoleID: "crown",
		CreatedAt:    now,
		UpdatedAt:    now,
	}))

	ok, err := IsLeader(db, "123", "president", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsLeader(db, "123", "someone", []string{"crown"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsLeader(db, "123", "someone", []string{"peasant"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasDepartmentAccess(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().Unix()
	require.NoError(t, govdb.UpsertGovConfig(db, model.GovConfig{
		GuildID:      "123",
		LeaderUserID: "president",
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
	require.NoError(t, govdb.UpsertDepartmentSetting(db, model.DepartmentSetting{
		GuildID:      "123",
		Department:   model.DepartmentFinance.Key(),
		RoleID:       "tax-office",
		ExtraRoleIDs: `["auditors"]`,
		UpdatedAt:    now,
	}))

	// Legacy role grants access.
	ok, err := HasDepartmentAccess(db, "123", "clerk", model.DepartmentFinance, []string{"tax-office"})
	require.NoError(t, err)
	assert.True(t, ok)

	// Incrementally added role grants access.
	ok, err = HasDepartmentAccess(db, "123", "clerk", model.DepartmentFinance, []string{"auditors"})
	require.NoError(t, err)
	assert.True(t, ok)

	// Unrelated role does not.
	ok, err = HasDepartmentAccess(db, "123", "clerk", model.DepartmentFinance, []string{"peasant"})
	require.NoError(t, err)
	assert.False(t, ok)

	// The leader reaches every department, configured or not.
	ok, err = HasDepartmentAccess(db, "123", "president", model.DepartmentSecurity, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}
