package suspects

import (
	"fmt"
	"log"
	"sync"
	"time"

	"gov-bot/government"
	"gov-bot/model"
)

const defaultPollInterval = 5 * time.Minute

// errorBackoff is the pause after a cycle that hit failures, so a flapping
// directory API does not get hammered every tick.
const errorBackoff = 30 * time.Second

// AutoReleaseScheduler polls the job queue and releases suspects whose time
// has matured. One scheduler runs per process; Start is idempotent and Stop
// waits for in-flight work.
type AutoReleaseScheduler struct {
	manager       *Manager
	jobs          *JobQueue
	systemActorID string
	interval      time.Duration

	startOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewAutoReleaseScheduler creates a scheduler over the manager's job queue.
// interval <= 0 falls back to the 5-minute default.
func NewAutoReleaseScheduler(manager *Manager, systemActorID string, interval time.Duration) *AutoReleaseScheduler {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &AutoReleaseScheduler{
		manager:       manager,
		jobs:          manager.Jobs(),
		systemActorID: systemActorID,
		interval:      interval,
		done:          make(chan struct{}),
	}
}

// Schedule registers a timed release for a suspect, replacing any prior job.
func (s *AutoReleaseScheduler) Schedule(guildID, suspectID string, hours int, scheduledBy string) model.AutoReleaseJob {
	return s.jobs.Schedule(guildID, suspectID, hours, scheduledBy)
}

// Cancel drops a pending job, if any.
func (s *AutoReleaseScheduler) Cancel(guildID, suspectID string) {
	s.jobs.Cancel(guildID, suspectID)
}

// Pending returns the job scheduled for a suspect, if any.
func (s *AutoReleaseScheduler) Pending(guildID, suspectID string) (model.AutoReleaseJob, bool) {
	return s.jobs.Pending(guildID, suspectID)
}

// Start launches the polling loop. Subsequent calls are no-ops.
func (s *AutoReleaseScheduler) Start() {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.loop()
	})
}

// Stop signals the loop and waits for the current cycle to finish.
func (s *AutoReleaseScheduler) Stop() {
	close(s.done)
	s.wg.Wait()
}

func (s *AutoReleaseScheduler) loop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.runCycle(time.Now()) > 0 {
				select {
				case <-time.After(errorBackoff):
				case <-s.done:
					return
				}
			}
		case <-s.done:
			return
		}
	}
}

// runCycle releases every due suspect and returns the number of failures.
// A job is removed even when its release fails: a single broken member or
// guild must not turn into a retry storm, and one guild's failure never
// blocks the others in the same cycle.
func (s *AutoReleaseScheduler) runCycle(now time.Time) int {
	failures := 0
	for guildID, guildJobs := range s.jobs.Due(now) {
		for _, job := range guildJobs {
			reason := fmt.Sprintf("automatic release after %d hours", job.Hours)
			results, err := s.manager.Release(guildID, []string{job.SuspectID},
				reason, government.Actor{ID: s.systemActorID}, true)
			if err != nil {
				log.Printf("Auto release of %s in guild %s failed: %v", job.SuspectID, guildID, err)
				failures++
			} else {
				for _, result := range results {
					if result.Err != nil {
						log.Printf("Auto release of %s in guild %s failed: %v", result.SuspectID, guildID, result.Err)
						failures++
					}
				}
			}
			// Removed regardless of outcome.
			s.jobs.Cancel(guildID, job.SuspectID)
		}
	}
	return failures
}
