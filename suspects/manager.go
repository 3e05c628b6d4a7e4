package suspects

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"gov-bot/directory"
	"gov-bot/government"
	"gov-bot/model"
	govdb "gov-bot/utils/database/government"
)

// ErrSuspectCharged is returned when a release targets a suspect the
// external justice workflow has charged. The refusal is explicit so
// operators see the discrepancy instead of a silent skip.
var ErrSuspectCharged = errors.New("suspect is under charge and cannot be released")

// Manager drives the detain/release lifecycle. Role mutations on the
// member directory are best effort: the primary effect of an arrest or
// release is the identity record, so a partial role sync is logged and
// reported, not escalated to a hard failure.
type Manager struct {
	db   *sqlx.DB
	dir  directory.Directory
	jobs *JobQueue
}

// NewManager wires a manager to the governance store, the member directory
// and the shared auto-release job queue.
func NewManager(db *sqlx.DB, dir directory.Directory, jobs *JobQueue) *Manager {
	return &Manager{db: db, dir: dir, jobs: jobs}
}

// Jobs exposes the shared job queue.
func (m *Manager) Jobs() *JobQueue {
	return m.jobs
}

// ArrestResult reports how far the role sync got alongside the recorded
// identity action.
type ArrestResult struct {
	Record         model.IdentityRecord
	SuspectRoleSet bool
	CitizenRemoved bool
}

// Arrest flags a member as suspect: assigns the suspect role, removes the
// citizen role, and records an identity record regardless of whether the
// role mutations fully succeeded.
func (m *Manager) Arrest(guildID, targetID, reason string, actor government.Actor) (*ArrestResult, error) {
	cfg, err := m.config(guildID)
	if err != nil {
		return nil, err
	}
	ok, err := government.HasDepartmentAccess(m.db, guildID, actor.ID, model.DepartmentSecurity, actor.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed permission check: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s may not arrest in guild %s", government.ErrPermissionDenied, actor.ID, guildID)
	}
	if cfg.SuspectRoleID == "" {
		return nil, fmt.Errorf("%w: no suspect role configured", government.ErrValidation)
	}

	member, err := m.dir.Member(guildID, targetID)
	if err != nil {
		return nil, fmt.Errorf("cannot arrest %s: %w", targetID, err)
	}

	// Preflight the hierarchy so a doomed mutation surfaces as a clear
	// permission error instead of an opaque API failure.
	if manageable, err := m.dir.CanManageRole(guildID, cfg.SuspectRoleID); err == nil && !manageable {
		return nil, fmt.Errorf("%w: bot cannot manage the suspect role %s", government.ErrPermissionDenied, cfg.SuspectRoleID)
	}

	result := &ArrestResult{SuspectRoleSet: true, CitizenRemoved: true}
	if err := m.dir.AddRole(guildID, targetID, cfg.SuspectRoleID, reason); err != nil {
		log.Printf("Arrest of %s in guild %s: suspect role not applied: %v", targetID, guildID, err)
		result.SuspectRoleSet = false
	}
	if cfg.CitizenRoleID != "" {
		if err := m.dir.RemoveRole(guildID, targetID, cfg.CitizenRoleID, reason); err != nil {
			log.Printf("Arrest of %s in guild %s: citizen role not removed: %v", targetID, guildID, err)
			result.CitizenRemoved = false
		}
	} else {
		result.CitizenRemoved = false
	}

	record := model.IdentityRecord{
		GuildID:      guildID,
		UserID:       targetID,
		UserUsername: member.Username,
		AdminID:      actor.ID,
		Action:       model.IdentityActionArrest,
		Reason:       reason,
		Timestamp:    time.Now().Unix(),
	}
	id, err := govdb.InsertIdentityRecord(m.db, record)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to record arrest: %v", government.ErrStorage, err)
	}
	record.ID = id
	result.Record = record
	return result, nil
}

// ReleaseResult reports the outcome for one suspect in a release batch.
type ReleaseResult struct {
	SuspectID    string
	Released     bool
	RoleRestored bool
	Err          error
}

// Release ends the arrest episode for each suspect: swaps the roles back,
// records a release identity record, and cancels any pending auto-release
// job. Per-suspect failures are reported in the result slice and do not
// stop the batch. Suspects under an external charge are refused.
func (m *Manager) Release(guildID string, suspectIDs []string, reason string, actor government.Actor, skipPermissionCheck bool) ([]ReleaseResult, error) {
	cfg, err := m.config(guildID)
	if err != nil {
		return nil, err
	}
	if !skipPermissionCheck {
		ok, err := government.HasDepartmentAccess(m.db, guildID, actor.ID, model.DepartmentSecurity, actor.Roles)
		if err != nil {
			return nil, fmt.Errorf("failed permission check: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s may not release in guild %s", government.ErrPermissionDenied, actor.ID, guildID)
		}
	}

	results := make([]ReleaseResult, 0, len(suspectIDs))
	for _, suspectID := range suspectIDs {
		results = append(results, m.releaseOne(guildID, cfg, suspectID, reason, actor))
	}
	return results, nil
}

func (m *Manager) releaseOne(guildID string, cfg *model.GovConfig, suspectID, reason string, actor government.Actor) ReleaseResult {
	result := ReleaseResult{SuspectID: suspectID}

	latest, err := govdb.GetLatestIdentityRecord(m.db, guildID, suspectID, []string{
		model.IdentityActionArrest, model.IdentityActionMarkSuspect,
		model.IdentityActionRelease, model.IdentityActionCharge,
	})
	if err != nil && !errors.Is(err, govdb.ErrNotFound) {
		result.Err = fmt.Errorf("%w: failed to load identity history: %v", government.ErrStorage, err)
		return result
	}
	if latest != nil && latest.Action == model.IdentityActionCharge {
		result.Err = fmt.Errorf("%w: %s", ErrSuspectCharged, suspectID)
		return result
	}

	member, err := m.dir.Member(guildID, suspectID)
	if err != nil {
		// Job removal still happens so a gone member never leaves a
		// pending release behind.
		m.jobs.Cancel(guildID, suspectID)
		result.Err = fmt.Errorf("cannot release %s: %w", suspectID, err)
		return result
	}

	result.RoleRestored = true
	if cfg.SuspectRoleID != "" {
		if err := m.dir.RemoveRole(guildID, suspectID, cfg.SuspectRoleID, reason); err != nil {
			log.Printf("Release of %s in guild %s: suspect role not removed: %v", suspectID, guildID, err)
			result.RoleRestored = false
		}
	}
	if cfg.CitizenRoleID != "" {
		if err := m.dir.AddRole(guildID, suspectID, cfg.CitizenRoleID, reason); err != nil {
			log.Printf("Release of %s in guild %s: citizen role not restored: %v", suspectID, guildID, err)
			result.RoleRestored = false
		}
	}

	record := model.IdentityRecord{
		GuildID:      guildID,
		UserID:       suspectID,
		UserUsername: member.Username,
		AdminID:      actor.ID,
		Action:       model.IdentityActionRelease,
		Reason:       reason,
		Timestamp:    time.Now().Unix(),
	}
	if _, err := govdb.InsertIdentityRecord(m.db, record); err != nil {
		m.jobs.Cancel(guildID, suspectID)
		result.Err = fmt.Errorf("%w: failed to record release: %v", government.ErrStorage, err)
		return result
	}

	m.jobs.Cancel(guildID, suspectID)
	result.Released = true
	return result
}

// ListSuspects joins live suspect-role membership with the latest identity
// record per member and any pending auto-release job. Read-only. The
// snapshot is ordered by arrest time descending, then by name.
func (m *Manager) ListSuspects(guildID, keyword string) ([]model.SuspectProfile, error) {
	cfg, err := m.config(guildID)
	if err != nil {
		return nil, err
	}
	if cfg.SuspectRoleID == "" {
		return nil, fmt.Errorf("%w: no suspect role configured", government.ErrValidation)
	}

	members, err := m.dir.MembersWithRole(guildID, cfg.SuspectRoleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list suspect role holders: %w", err)
	}

	keyword = strings.ToLower(keyword)
	profiles := make([]model.SuspectProfile, 0, len(members))
	for _, member := range members {
		if keyword != "" && !matchesKeyword(member, keyword) {
			continue
		}

		profile := model.SuspectProfile{
			UserID:      member.ID,
			Username:    member.Username,
			DisplayName: member.DisplayName,
			Status:      model.SuspectStatusDetained,
		}

		latest, err := govdb.GetLatestIdentityRecord(m.db, guildID, member.ID, []string{
			model.IdentityActionArrest, model.IdentityActionMarkSuspect, model.IdentityActionCharge,
		})
		if err != nil && !errors.Is(err, govdb.ErrNotFound) {
			return nil, fmt.Errorf("%w: failed to load identity history: %v", government.ErrStorage, err)
		}
		if latest != nil {
			profile.Reason = latest.Reason
			profile.ArrestedBy = latest.AdminID
			profile.ArrestedAt = latest.Timestamp
			if latest.Action == model.IdentityActionCharge {
				profile.Status = model.SuspectStatusCharged
			}
		}

		if job, ok := m.jobs.Pending(guildID, member.ID); ok {
			profile.ReleaseAt = job.ReleaseAt
		}

		profiles = append(profiles, profile)
	}

	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].ArrestedAt != profiles[j].ArrestedAt {
			return profiles[i].ArrestedAt > profiles[j].ArrestedAt
		}
		return profiles[i].DisplayName < profiles[j].DisplayName
	})
	return profiles, nil
}

func (m *Manager) config(guildID string) (*model.GovConfig, error) {
	cfg, err := govdb.GetGovConfig(m.db, guildID)
	if err != nil {
		if errors.Is(err, govdb.ErrNotFound) {
			return nil, fmt.Errorf("%w: guild %s", government.ErrNotConfigured, guildID)
		}
		return nil, fmt.Errorf("%w: failed to load config: %v", government.ErrStorage, err)
	}
	return cfg, nil
}

func matchesKeyword(member directory.Member, keyword string) bool {
	return strings.Contains(strings.ToLower(member.Username), keyword) ||
		strings.Contains(strings.ToLower(member.DisplayName), keyword) ||
		strings.Contains(member.ID, keyword)
}
