package directory

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DiscordDirectory implements Directory over a discordgo session.
type DiscordDirectory struct {
	session *discordgo.Session
}

// NewDiscordDirectory wraps a session.
func NewDiscordDirectory(session *discordgo.Session) *DiscordDirectory {
	return &DiscordDirectory{session: session}
}

// Member resolves a guild member by id.
func (d *DiscordDirectory) Member(guildID, userID string) (*Member, error) {
	member, err := d.session.GuildMember(guildID, userID)
	if err != nil {
		if isUnknownMember(err) {
			return nil, fmt.Errorf("user %s in guild %s: %w", userID, guildID, ErrMemberNotFound)
		}
		return nil, fmt.Errorf("failed to get member %s in guild %s: %w", userID, guildID, err)
	}
	return convertMember(member), nil
}

// AddRole grants a role with an audit log reason.
func (d *DiscordDirectory) AddRole(guildID, userID, roleID, reason string) error {
	err := d.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
	if err != nil {
		return fmt.Errorf("failed to add role %s to user %s: %w", roleID, userID, err)
	}
	return nil
}

// RemoveRole revokes a role with an audit log reason.
func (d *DiscordDirectory) RemoveRole(guildID, userID, roleID, reason string) error {
	err := d.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
	if err != nil {
		return fmt.Errorf("failed to remove role %s from user %s: %w", roleID, userID, err)
	}
	return nil
}

// CanManageRole checks whether the bot's highest role sits above the target
// role. Used to turn doomed mutation attempts into clear permission errors
// before hitting the API.
func (d *DiscordDirectory) CanManageRole(guildID, roleID string) (bool, error) {
	roles, err := d.session.GuildRoles(guildID)
	if err != nil {
		return false, fmt.Errorf("failed to get roles for guild %s: %w", guildID, err)
	}

	positions := make(map[string]int, len(roles))
	for _, role := range roles {
		positions[role.ID] = role.Position
	}
	targetPos, ok := positions[roleID]
	if !ok {
		return false, fmt.Errorf("role %s not found in guild %s", roleID, guildID)
	}

	self, err := d.session.GuildMember(guildID, d.session.State.User.ID)
	if err != nil {
		return false, fmt.Errorf("failed to get own member in guild %s: %w", guildID, err)
	}
	botTop := 0
	for _, id := range self.Roles {
		if pos, ok := positions[id]; ok && pos > botTop {
			botTop = pos
		}
	}

	return botTop > targetPos, nil
}

// MembersWithRole pages through the guild member list and returns everyone
// holding the role.
func (d *DiscordDirectory) MembersWithRole(guildID, roleID string) ([]Member, error) {
	var result []Member
	after := ""
	for {
		members, err := d.session.GuildMembers(guildID, after, 1000)
		if err != nil {
			return nil, fmt.Errorf("failed to list members for guild %s: %w", guildID, err)
		}
		if len(members) == 0 {
			break
		}
		for _, member := range members {
			for _, id := range member.Roles {
				if id == roleID {
					result = append(result, *convertMember(member))
					break
				}
			}
		}
		after = members[len(members)-1].User.ID
		if len(members) < 1000 {
			break
		}
	}
	return result, nil
}

func convertMember(member *discordgo.Member) *Member {
	display := member.Nick
	if display == "" {
		display = member.User.Username
	}
	return &Member{
		ID:          member.User.ID,
		Username:    member.User.Username,
		DisplayName: display,
		Roles:       member.Roles,
	}
}

func isUnknownMember(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		return restErr.Message.Code == discordgo.ErrCodeUnknownMember ||
			restErr.Message.Code == discordgo.ErrCodeUnknownUser
	}
	return false
}
