package suspects

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"gov-bot/directory"
	"gov-bot/model"
	govdb "gov-bot/utils/database/government"
)

const testGuild = "700"

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := govdb.Init(filepath.Join(t.TempDir(), "gov.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedConfig(t *testing.T, db *sqlx.DB) {
	t.Helper()
	now := time.Now().Unix()
	require.NoError(t, govdb.UpsertGovConfig(db, model.GovConfig{
		GuildID:       testGuild,
		LeaderUserID:  "president",
		CitizenRoleID: "citizen-role",
		SuspectRoleID: "suspect-role",
		CreatedAt:     now,
		UpdatedAt:     now,
	}))
}

// fakeDirectory is an in-memory member directory with per-user failure
// switches for role mutations.
type fakeDirectory struct {
	members     map[string]*directory.Member
	failAddFor  map[string]bool
	unmanagable bool
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		members:    make(map[string]*directory.Member),
		failAddFor: make(map[string]bool),
	}
}

func (d *fakeDirectory) addMember(id string, roles ...string) {
	d.members[id] = &directory.Member{
		ID:          id,
		Username:    "user-" + id,
		DisplayName: "User " + id,
		Roles:       roles,
	}
}

func (d *fakeDirectory) Member(guildID, userID string) (*directory.Member, error) {
	member, ok := d.members[userID]
	if !ok {
		return nil, directory.ErrMemberNotFound
	}
	copied := *member
	return &copied, nil
}

func (d *fakeDirectory) AddRole(guildID, userID, roleID, reason string) error {
	if d.failAddFor[userID] {
		return fmt.Errorf("forbidden")
	}
	member, ok := d.members[userID]
	if !ok {
		return directory.ErrMemberNotFound
	}
	for _, role := range member.Roles {
		if role == roleID {
			return nil
		}
	}
	member.Roles = append(member.Roles, roleID)
	return nil
}

func (d *fakeDirectory) RemoveRole(guildID, userID, roleID, reason string) error {
	member, ok := d.members[userID]
	if !ok {
		return directory.ErrMemberNotFound
	}
	kept := member.Roles[:0]
	for _, role := range member.Roles {
		if role != roleID {
			kept = append(kept, role)
		}
	}
	member.Roles = kept
	return nil
}

func (d *fakeDirectory) CanManageRole(guildID, roleID string) (bool, error) {
	return !d.unmanagable, nil
}

func (d *fakeDirectory) MembersWithRole(guildID, roleID string) ([]directory.Member, error) {
	var out []directory.Member
	for _, member := range d.members {
		for _, role := range member.Roles {
			if role == roleID {
				out = append(out, *member)
				break
			}
		}
	}
	return out, nil
}

func (d *fakeDirectory) hasRole(userID, roleID string) bool {
	member, ok := d.members[userID]
	if !ok {
		return false
	}
	for _, role := range member.Roles {
		if role == roleID {
			return true
		}
	}
	return false
}
