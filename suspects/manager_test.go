package suspects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gov-bot/government"
	"gov-bot/model"
	govdb "gov-bot/utils/database/government"
)

var president = government.Actor{ID: "president"}

func newTestManager(t *testing.T) (*Manager, *fakeDirectory) {
	t.Helper()
	db := newTestDB(t)
	seedConfig(t, db)
	dir := newFakeDirectory()
	return NewManager(db, dir, NewJobQueue()), dir
}

func TestArrestSwapsRolesAndRecords(t *testing.T) {
	manager, dir := newTestManager(t)
	dir.addMember("outlaw", "citizen-role")

	result, err := manager.Arrest(testGuild, "outlaw", "smuggling", president)
	require.NoError(t, err)
	assert.True(t, result.SuspectRoleSet)
	assert.True(t, result.CitizenRemoved)
	assert.NotZero(t, result.Record.ID)

	assert.True(t, dir.hasRole("outlaw", "suspect-role"))
	assert.False(t, dir.hasRole("outlaw", "citizen-role"))

	latest, err := govdb.GetLatestIdentityRecord(manager.db, testGuild, "outlaw",
		[]string{model.IdentityActionArrest})
	require.NoError(t, err)
	assert.Equal(t, "smuggling", latest.Reason)
	assert.Equal(t, "president", latest.AdminID)
}

func TestArrestRequiresSecurityAccess(t *testing.T) {
	manager, dir := newTestManager(t)
	dir.addMember("outlaw", "citizen-role")

	_, err := manager.Arrest(testGuild, "outlaw", "smuggling", government.Actor{ID: "nobody"})
	assert.ErrorIs(t, err, government.ErrPermissionDenied)
}

func TestArrestUnknownMember(t *testing.T) {
	manager, _ := newTestManager(t)
	_, err := manager.Arrest(testGuild, "ghost", "smuggling", president)
	assert.Error(t, err)
}

func TestArrestHierarchyPreflight(t *testing.T) {
	manager, dir := newTestManager(t)
	dir.addMember("outlaw", "citizen-role")
	dir.unmanagable = true

	_, err := manager.Arrest(testGuild, "outlaw", "smuggling", president)
	assert.ErrorIs(t, err, government.ErrPermissionDenied)
}

func TestArrestRecordsDespiteRoleFailure(t *testing.T) {
	manager, dir := newTestManager(t)
	dir.addMember("outlaw", "citizen-role")
	dir.failAddFor["outlaw"] = true

	result, err := manager.Arrest(testGuild, "outlaw", "smuggling", president)
	require.NoError(t, err)
	assert.False(t, result.SuspectRoleSet)
	assert.True(t, result.CitizenRemoved)

	latest, err := govdb.GetLatestIdentityRecord(manager.db, testGuild, "outlaw",
		[]string{model.IdentityActionArrest})
	require.NoError(t, err)
	assert.NotNil(t, latest)
}

func TestReleaseRestoresRolesAndCancelsJob(t *testing.T) {
	manager, dir := newTestManager(t)
	dir.addMember("outlaw", "citizen-role")
	_, err := manager.Arrest(testGuild, "outlaw", "smuggling", president)
	require.NoError(t, err)
	manager.jobs.Schedule(testGuild, "outlaw", 24, "president")

	results, err := manager.Release(testGuild, []string{"outlaw"}, "served time", president, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Released)
	assert.True(t, results[0].RoleRestored)
	assert.NoError(t, results[0].Err)

	assert.False(t, dir.hasRole("outlaw", "suspect-role"))
	assert.True(t, dir.hasRole("outlaw", "citizen-role"))

	_, pending := manager.jobs.Pending(testGuild, "outlaw")
	assert.False(t, pending)

	latest, err := govdb.GetLatestIdentityRecord(manager.db, testGuild, "outlaw",
		[]string{model.IdentityActionArrest, model.IdentityActionRelease})
	require.NoError(t, err)
	assert.Equal(t, model.IdentityActionRelease, latest.Action)
}

func TestReleaseRefusesChargedSuspect(t *testing.T) {
	manager, dir := newTestManager(t)
	dir.addMember("outlaw", "suspect-role")
	_, err := govdb.InsertIdentityRecord(manager.db, model.IdentityRecord{
		GuildID:   testGuild,
		UserID:    "outlaw",
		AdminID:   "prosecutor",
		Action:    model.IdentityActionCharge,
		Reason:    "indicted",
		Timestamp: time.Now().Unix(),
	})
	require.NoError(t, err)

	results, err := manager.Release(testGuild, []string{"outlaw"}, "attempt", president, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, ErrSuspectCharged)
	assert.False(t, results[0].Released)
	assert.True(t, dir.hasRole("outlaw", "suspect-role"))
}

func TestReleaseGoneMemberCancelsJob(t *testing.T) {
	manager, _ := newTestManager(t)
	manager.jobs.Schedule(testGuild, "ghost", 24, "president")

	results, err := manager.Release(testGuild, []string{"ghost"}, "cleanup", president, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)

	_, pending := manager.jobs.Pending(testGuild, "ghost")
	assert.False(t, pending)
}

func TestReleaseBatchContinuesPastFailures(t *testing.T) {
	manager, dir := newTestManager(t)
	dir.addMember("outlaw", "suspect-role")

	results, err := manager.Release(testGuild, []string{"ghost", "outlaw"}, "sweep", president, false)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.True(t, results[1].Released)
}

func TestListSuspectsOrderingAndFilter(t *testing.T) {
	manager, dir := newTestManager(t)
	dir.addMember("early", "suspect-role")
	dir.addMember("late", "suspect-role")
	dir.addMember("bystander", "citizen-role")

	base := time.Now().Unix()
	_, err := govdb.InsertIdentityRecord(manager.db, model.IdentityRecord{
		GuildID: testGuild, UserID: "early", AdminID: "president",
		Action: model.IdentityActionArrest, Reason: "first", Timestamp: base - 100,
	})
	require.NoError(t, err)
	_, err = govdb.InsertIdentityRecord(manager.db, model.IdentityRecord{
		GuildID: testGuild, UserID: "late", AdminID: "president",
		Action: model.IdentityActionArrest, Reason: "second", Timestamp: base,
	})
	require.NoError(t, err)
	manager.jobs.Schedule(testGuild, "late", 24, "president")

	profiles, err := manager.ListSuspects(testGuild, "")
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "late", profiles[0].UserID, "most recent arrest first")
	assert.Equal(t, "early", profiles[1].UserID)
	assert.False(t, profiles[0].ReleaseAt.IsZero())
	assert.True(t, profiles[1].ReleaseAt.IsZero())

	profiles, err = manager.ListSuspects(testGuild, "early")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "early", profiles[0].UserID)
}

func TestListSuspectsMarksCharged(t *testing.T) {
	manager, dir := newTestManager(t)
	dir.addMember("outlaw", "suspect-role")
	_, err := govdb.InsertIdentityRecord(manager.db, model.IdentityRecord{
		GuildID: testGuild, UserID: "outlaw", AdminID: "prosecutor",
		Action: model.IdentityActionCharge, Reason: "indicted", Timestamp: time.Now().Unix(),
	})
	require.NoError(t, err)

	profiles, err := manager.ListSuspects(testGuild, "")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, model.SuspectStatusCharged, profiles[0].Status)
}
