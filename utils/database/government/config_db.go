package government

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gov-bot/model"
)

// All write functions accept sqlx.Ext so callers can compose them inside a
// transaction.

// UpsertGovConfig creates or updates a guild's government configuration.
// created_at is preserved on update.
func UpsertGovConfig(e sqlx.Ext, cfg model.GovConfig) error {
	query := `INSERT INTO gov_configs (guild_id, leader_user_id, leader_role_id,
			internal_affairs_account_id, finance_account_id, security_account_id, central_bank_account_id,
			citizen_role_id, suspect_role_id, auto_release_hours, created_at, updated_at)
		VALUES (:guild_id, :leader_user_id, :leader_role_id,
			:internal_affairs_account_id, :finance_account_id, :security_account_id, :central_bank_account_id,
			:citizen_role_id, :suspect_role_id, :auto_release_hours, :created_at, :updated_at)
		ON CONFLICT(guild_id) DO UPDATE SET
			leader_user_id = excluded.leader_user_id,
			leader_role_id = excluded.leader_role_id,
			internal_affairs_account_id = excluded.internal_affairs_account_id,
			finance_account_id = excluded.finance_account_id,
			security_account_id = excluded.security_account_id,
			central_bank_account_id = excluded.central_bank_account_id,
			citizen_role_id = excluded.citizen_role_id,
			suspect_role_id = excluded.suspect_role_id,
			auto_release_hours = excluded.auto_release_hours,
			updated_at = excluded.updated_at`

	if _, err := sqlx.NamedExec(e, query, cfg); err != nil {
		return fmt.Errorf("failed to upsert gov config for guild %s: %w", cfg.GuildID, err)
	}
	return nil
}

// GetGovConfig fetches a guild's government configuration, or ErrNotFound
// when the guild has never been set up.
func GetGovConfig(e sqlx.Ext, guildID string) (*model.GovConfig, error) {
	var cfg model.GovConfig
	err := sqlx.Get(e, &cfg, "SELECT * FROM gov_configs WHERE guild_id = ?", guildID)
	if err != nil {
		return nil, wrapNotFound(err, fmt.Sprintf("gov config for guild %s", guildID))
	}
	return &cfg, nil
}

// UpsertDepartmentSetting creates or updates a (guild, department) policy
// row. Idempotent.
func UpsertDepartmentSetting(e sqlx.Ext, setting model.DepartmentSetting) error {
	query := `INSERT INTO department_settings (guild_id, department, role_id, extra_role_ids,
			welfare_amount, welfare_interval_hours, tax_basis, tax_percent, max_issuance_per_month, updated_at)
		VALUES (:guild_id, :department, :role_id, :extra_role_ids,
			:welfare_amount, :welfare_interval_hours, :tax_basis, :tax_percent, :max_issuance_per_month, :updated_at)
		ON CONFLICT(guild_id, department) DO UPDATE SET
			role_id = excluded.role_id,
			extra_role_ids = excluded.extra_role_ids,
			welfare_amount = excluded.welfare_amount,
			welfare_interval_hours = excluded.welfare_interval_hours,
			tax_basis = excluded.tax_basis,
			tax_percent = excluded.tax_percent,
			max_issuance_per_month = excluded.max_issuance_per_month,
			updated_at = excluded.updated_at`

	if _, err := sqlx.NamedExec(e, query, setting); err != nil {
		return fmt.Errorf("failed to upsert department setting %s/%s: %w", setting.GuildID, setting.Department, err)
	}
	return nil
}

// GetDepartmentSetting fetches one (guild, department) policy row, or
// ErrNotFound when none exists.
func GetDepartmentSetting(e sqlx.Ext, guildID, department string) (*model.DepartmentSetting, error) {
	var setting model.DepartmentSetting
	err := sqlx.Get(e, &setting,
		"SELECT * FROM department_settings WHERE guild_id = ? AND department = ?", guildID, department)
	if err != nil {
		return nil, wrapNotFound(err, fmt.Sprintf("department setting %s/%s", guildID, department))
	}
	return &setting, nil
}

// ListDepartmentSettings fetches all policy rows for a guild.
func ListDepartmentSettings(e sqlx.Ext, guildID string) ([]model.DepartmentSetting, error) {
	var settings []model.DepartmentSetting
	err := sqlx.Select(e, &settings,
		"SELECT * FROM department_settings WHERE guild_id = ? ORDER BY department", guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list department settings for guild %s: %w", guildID, err)
	}
	return settings, nil
}

// AddDepartmentRole attaches an additional authorization role to a
// department, independent of the legacy role_id field. No-op when the role
// is already attached.
func AddDepartmentRole(e sqlx.Ext, guildID, department, roleID string, now int64) error {
	setting, err := GetDepartmentSetting(e, guildID, department)
	if err != nil {
		return err
	}

	var ids []string
	if setting.ExtraRoleIDs != "" {
		if err := json.Unmarshal([]byte(setting.ExtraRoleIDs), &ids); err != nil {
			return fmt.Errorf("failed to parse extra role ids for %s/%s: %w", guildID, department, err)
		}
	}
	for _, id := range ids {
		if id == roleID {
			return nil
		}
	}
	ids = append(ids, roleID)

	return saveExtraRoles(e, guildID, department, ids, now)
}

// RemoveDepartmentRole detaches an additional authorization role. No-op
// when the role is not attached.
func RemoveDepartmentRole(e sqlx.Ext, guildID, department, roleID string, now int64) error {
	setting, err := GetDepartmentSetting(e, guildID, department)
	if err != nil {
		return err
	}

	var ids []string
	if setting.ExtraRoleIDs != "" {
		if err := json.Unmarshal([]byte(setting.ExtraRoleIDs), &ids); err != nil {
			return fmt.Errorf("failed to parse extra role ids for %s/%s: %w", guildID, department, err)
		}
	}
	kept := ids[:0]
	for _, id := range ids {
		if id != roleID {
			kept = append(kept, id)
		}
	}

	return saveExtraRoles(e, guildID, department, kept, now)
}

func saveExtraRoles(e sqlx.Ext, guildID, department string, ids []string, now int64) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to serialize extra role ids: %w", err)
	}
	_, err = e.Exec("UPDATE department_settings SET extra_role_ids = ?, updated_at = ? WHERE guild_id = ? AND department = ?",
		string(raw), now, guildID, department)
	if err != nil {
		return fmt.Errorf("failed to update extra role ids for %s/%s: %w", guildID, department, err)
	}
	return nil
}
