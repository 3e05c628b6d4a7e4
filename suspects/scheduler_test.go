package suspects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gov-bot/model"
	govdb "gov-bot/utils/database/government"
)

func newTestScheduler(t *testing.T) (*AutoReleaseScheduler, *Manager, *fakeDirectory) {
	t.Helper()
	manager, dir := newTestManager(t)
	return NewAutoReleaseScheduler(manager, "system", time.Minute), manager, dir
}

func TestRunCycleReleasesDueJobs(t *testing.T) {
	scheduler, manager, dir := newTestScheduler(t)
	dir.addMember("outlaw", "suspect-role")
	scheduler.Schedule(testGuild, "outlaw", 1, "president")

	failures := scheduler.runCycle(time.Now().Add(2 * time.Hour))
	assert.Equal(t, 0, failures)

	assert.False(t, dir.hasRole("outlaw", "suspect-role"))
	assert.True(t, dir.hasRole("outlaw", "citizen-role"))

	_, pending := scheduler.Pending(testGuild, "outlaw")
	assert.False(t, pending)

	latest, err := govdb.GetLatestIdentityRecord(manager.db, testGuild, "outlaw",
		[]string{model.IdentityActionRelease})
	require.NoError(t, err)
	assert.Equal(t, "system", latest.AdminID)
}

func TestRunCycleSkipsFutureJobs(t *testing.T) {
	scheduler, _, dir := newTestScheduler(t)
	dir.addMember("outlaw", "suspect-role")
	scheduler.Schedule(testGuild, "outlaw", 48, "president")

	failures := scheduler.runCycle(time.Now().Add(time.Hour))
	assert.Equal(t, 0, failures)

	_, pending := scheduler.Pending(testGuild, "outlaw")
	assert.True(t, pending)
	assert.True(t, dir.hasRole("outlaw", "suspect-role"))
}

func TestRunCycleRemovesJobEvenOnFailure(t *testing.T) {
	scheduler, _, _ := newTestScheduler(t)
	// Member never joins the fake directory, so the release fails.
	scheduler.Schedule(testGuild, "ghost", 1, "president")

	failures := scheduler.runCycle(time.Now().Add(2 * time.Hour))
	assert.Equal(t, 1, failures)

	_, pending := scheduler.Pending(testGuild, "ghost")
	assert.False(t, pending, "failed jobs must not retry forever")
}

func TestRunCycleBypassesPermissionCheck(t *testing.T) {
	scheduler, _, dir := newTestScheduler(t)
	dir.addMember("outlaw", "suspect-role")
	scheduler.Schedule(testGuild, "outlaw", 1, "president")

	// The system actor holds no roles and is not the leader; the timed
	// release must still go through.
	failures := scheduler.runCycle(time.Now().Add(2 * time.Hour))
	assert.Equal(t, 0, failures)
	assert.False(t, dir.hasRole("outlaw", "suspect-role"))
}

func TestStartIsIdempotentAndStops(t *testing.T) {
	scheduler, _, _ := newTestScheduler(t)
	scheduler.Start()
	scheduler.Start()

	done := make(chan struct{})
	go func() {
		scheduler.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
}
