// Package directory wraps the chat platform's guild member and role
// surface. The treasury core only needs member resolution, role mutation
// with an audit reason, and a hierarchy preflight.
package directory

import "errors"

// ErrMemberNotFound is returned when a user id cannot be resolved to a
// current guild member.
var ErrMemberNotFound = errors.New("member not found")

// Member is a resolved guild member with its current role set.
type Member struct {
	ID          string
	Username    string
	DisplayName string
	Roles       []string
}

// Directory is the external role/member collaborator.
type Directory interface {
	// Member resolves a guild member, or ErrMemberNotFound.
	Member(guildID, userID string) (*Member, error)
	// AddRole grants a role, recording reason in the platform audit log.
	AddRole(guildID, userID, roleID, reason string) error
	// RemoveRole revokes a role, recording reason in the platform audit log.
	RemoveRole(guildID, userID, roleID, reason string) error
	// CanManageRole reports whether the automation identity outranks the
	// role, i.e. whether a mutation attempt can succeed at all.
	CanManageRole(guildID, roleID string) (bool, error)
	// MembersWithRole lists every member currently holding a role.
	MembersWithRole(guildID, roleID string) ([]Member, error)
}
