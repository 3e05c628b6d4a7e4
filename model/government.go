package model

import "encoding/json"

// GovConfig is the per-guild government configuration. Created on first
// setup and updated in place; never deleted. After setup the leader identity
// is a user id, a role id, or both, never neither.
type GovConfig struct {
	GuildID                  string `db:"guild_id"`
	LeaderUserID             string `db:"leader_user_id"`
	LeaderRoleID             string `db:"leader_role_id"`
	InternalAffairsAccountID int64  `db:"internal_affairs_account_id"`
	FinanceAccountID         int64  `db:"finance_account_id"`
	SecurityAccountID        int64  `db:"security_account_id"`
	CentralBankAccountID     int64  `db:"central_bank_account_id"`
	CitizenRoleID            string `db:"citizen_role_id"`
	SuspectRoleID            string `db:"suspect_role_id"`
	AutoReleaseHours         int    `db:"auto_release_hours"` // 0 = no default
	CreatedAt                int64  `db:"created_at"`
	UpdatedAt                int64  `db:"updated_at"`
}

// AccountIDFor returns the configured account id for a department, or 0 when
// none has been recorded yet.
func (c *GovConfig) AccountIDFor(dept Department) int64 {
	switch dept {
	case DepartmentInternalAffairs:
		return c.InternalAffairsAccountID
	case DepartmentFinance:
		return c.FinanceAccountID
	case DepartmentSecurity:
		return c.SecurityAccountID
	case DepartmentCentralBank:
		return c.CentralBankAccountID
	}
	return 0
}

// SetAccountIDFor records the account id for a department.
func (c *GovConfig) SetAccountIDFor(dept Department, accountID int64) {
	switch dept {
	case DepartmentInternalAffairs:
		c.InternalAffairsAccountID = accountID
	case DepartmentFinance:
		c.FinanceAccountID = accountID
	case DepartmentSecurity:
		c.SecurityAccountID = accountID
	case DepartmentCentralBank:
		c.CentralBankAccountID = accountID
	}
}

// DepartmentSetting is the per (guild, department) policy row. RoleID is the
// legacy single authorization role; ExtraRoleIDs holds additional role ids as
// a JSON array, managed incrementally.
// See AuthorizedRoleIDs for the combined role set.
type DepartmentSetting struct {
	GuildID             string `db:"guild_id"`
	Department          string `db:"department"`
	RoleID              string `db:"role_id"`
	ExtraRoleIDs        string `db:"extra_role_ids"` // JSON array of role ids
	WelfareAmount       int64  `db:"welfare_amount"`
	WelfareIntervalHrs  int64  `db:"welfare_interval_hours"`
	TaxBasis            string `db:"tax_basis"`
	TaxPercent          int64  `db:"tax_percent"`
	MaxIssuancePerMonth int64  `db:"max_issuance_per_month"` // 0 = uncapped
	UpdatedAt           int64  `db:"updated_at"`
}

// AuthorizedRoleIDs returns the full set of roles authorized for the
// department: the legacy single role id followed by the incrementally
// managed extras. "0" is the legacy sentinel for "no role".
func (s *DepartmentSetting) AuthorizedRoleIDs() []string {
	var ids []string
	if s.RoleID != "" && s.RoleID != "0" {
		ids = append(ids, s.RoleID)
	}
	var extras []string
	if s.ExtraRoleIDs != "" {
		if err := json.Unmarshal([]byte(s.ExtraRoleIDs), &extras); err == nil {
			for _, id := range extras {
				if id != "" && id != s.RoleID {
					ids = append(ids, id)
				}
			}
		}
	}
	return ids
}

// GovernmentAccount is the cached view of a department account. Balance
// mirrors the last known authoritative economy balance; it is never derived
// from previous cache values plus a delta.
type GovernmentAccount struct {
	AccountID  int64  `db:"account_id"`
	GuildID    string `db:"guild_id"`
	Department string `db:"department"`
	Balance    int64  `db:"balance"`
	CreatedAt  int64  `db:"created_at"`
	UpdatedAt  int64  `db:"updated_at"`
}
