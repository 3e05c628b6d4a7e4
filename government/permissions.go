package government

import (
	"errors"

	"github.com/jmoiron/sqlx"

	"gov-bot/model"
	govdb "gov-bot/utils/database/government"
)

// IsLeader reports whether the user is the configured guild leader, either
// by user id or by holding the leader role. A guild without configuration
// fails closed.
func IsLeader(e sqlx.Ext, guildID, userID string, userRoles []string) (bool, error) {
	cfg, err := govdb.GetGovConfig(e, guildID)
	if err != nil {
		if errors.Is(err, govdb.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if cfg.LeaderUserID != "" && cfg.LeaderUserID == userID {
		return true, nil
	}
	if cfg.LeaderRoleID != "" {
		for _, role := range userRoles {
			if role == cfg.LeaderRoleID {
				return true, nil
			}
		}
	}
	return false, nil
}

// HasDepartmentAccess reports whether the user may act for a department:
// any authorized department role grants access, and leaders have implicit
// access to every department. A missing department setting is not a deny
// when the user is the leader.
func HasDepartmentAccess(e sqlx.Ext, guildID, userID string, dept model.Department, userRoles []string) (bool, error) {
	setting, err := govdb.GetDepartmentSetting(e, guildID, dept.Key())
	if err != nil && !errors.Is(err, govdb.ErrNotFound) {
		return false, err
	}
	if setting != nil {
		for _, authorized := range setting.AuthorizedRoleIDs() {
			for _, role := range userRoles {
				if role == authorized {
					return true, nil
				}
			}
		}
	}

	return IsLeader(e, guildID, userID, userRoles)
}
