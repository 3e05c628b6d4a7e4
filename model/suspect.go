package model

import "time"

// Suspect episode statuses. Released is terminal per episode; a new arrest
// starts a fresh episode.
const (
	SuspectStatusDetained = "detained"
	SuspectStatusCharged  = "charged"
	SuspectStatusReleased = "released"
)

// SuspectProfile is a derived snapshot, computed by joining live role
// membership with the latest relevant identity record and any pending
// auto-release job. It is never stored.
type SuspectProfile struct {
	UserID      string
	Username    string
	DisplayName string
	Status      string
	Reason      string
	ArrestedBy  string
	ArrestedAt  int64     // unix seconds, 0 when no record was found
	ReleaseAt   time.Time // zero when no auto-release job is pending
}

// AutoReleaseJob is a pending timed release. Jobs live in process memory
// only; a restart loses them.
type AutoReleaseJob struct {
	GuildID     string
	SuspectID   string
	ReleaseAt   time.Time
	Hours       int
	ScheduledBy string
	ScheduledAt time.Time
}
