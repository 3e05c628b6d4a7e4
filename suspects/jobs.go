package suspects

import (
	"sync"
	"time"

	"gov-bot/model"
)

// Auto-release hours are clamped to one hour minimum, one week maximum.
const (
	MinAutoReleaseHours = 1
	MaxAutoReleaseHours = 168
)

// JobQueue holds pending auto-release jobs in process memory. It is local
// to one process: a horizontally scaled deployment would lose or duplicate
// jobs, and a restart drops everything pending.
type JobQueue struct {
	mu   sync.Mutex
	jobs map[string]map[string]model.AutoReleaseJob // guild id -> suspect id -> job
}

// NewJobQueue creates an empty queue.
func NewJobQueue() *JobQueue {
	return &JobQueue{jobs: make(map[string]map[string]model.AutoReleaseJob)}
}

// Schedule registers a timed release, replacing any existing job for the
// same suspect. hours is clamped to [MinAutoReleaseHours, MaxAutoReleaseHours].
func (q *JobQueue) Schedule(guildID, suspectID string, hours int, scheduledBy string) model.AutoReleaseJob {
	if hours < MinAutoReleaseHours {
		hours = MinAutoReleaseHours
	}
	if hours > MaxAutoReleaseHours {
		hours = MaxAutoReleaseHours
	}

	now := time.Now()
	job := model.AutoReleaseJob{
		GuildID:     guildID,
		SuspectID:   suspectID,
		ReleaseAt:   now.Add(time.Duration(hours) * time.Hour),
		Hours:       hours,
		ScheduledBy: scheduledBy,
		ScheduledAt: now,
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.jobs[guildID] == nil {
		q.jobs[guildID] = make(map[string]model.AutoReleaseJob)
	}
	q.jobs[guildID][suspectID] = job
	return job
}

// Cancel removes a pending job. No-op when none exists.
func (q *JobQueue) Cancel(guildID, suspectID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if guild, ok := q.jobs[guildID]; ok {
		delete(guild, suspectID)
		if len(guild) == 0 {
			delete(q.jobs, guildID)
		}
	}
}

// Pending returns the job scheduled for a suspect, if any.
func (q *JobQueue) Pending(guildID, suspectID string) (model.AutoReleaseJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[guildID][suspectID]
	return job, ok
}

// Due returns every job whose release time has passed, grouped by guild.
func (q *JobQueue) Due(now time.Time) map[string][]model.AutoReleaseJob {
	q.mu.Lock()
	defer q.mu.Unlock()

	due := make(map[string][]model.AutoReleaseJob)
	for guildID, guild := range q.jobs {
		for _, job := range guild {
			if !job.ReleaseAt.After(now) {
				due[guildID] = append(due[guildID], job)
			}
		}
	}
	return due
}

// Len reports the total number of pending jobs.
func (q *JobQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, guild := range q.jobs {
		n += len(guild)
	}
	return n
}
