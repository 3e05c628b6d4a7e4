package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"gov-bot/bot"
	"gov-bot/government"
	"gov-bot/model"
	"gov-bot/utils"
	govdb "gov-bot/utils/database/government"
)

// canAdministrate allows guild administrators and the configured leader to
// change government configuration.
func canAdministrate(b *bot.Bot, i *discordgo.InteractionCreate) bool {
	if i.Member == nil || i.Member.User == nil {
		return false
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	ok, err := government.IsLeader(b.DB, i.GuildID, i.Member.User.ID, i.Member.Roles)
	if err != nil {
		return false
	}
	return ok
}

func HandleGovSetup(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if i.Member == nil || i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		utils.SendErrorResponse(s, i, "只有服务器管理员可以进行政府设置。")
		return
	}
	if err := utils.DeferResponse(s, i, true); err != nil {
		return
	}

	opts := optionMap(i)
	var leaderUserID, leaderRoleID, citizenRoleID, suspectRoleID string
	autoReleaseHours := 0

	// Options left empty keep whatever an earlier setup recorded.
	if existing, err := govdb.GetGovConfig(b.DB, i.GuildID); err == nil {
		leaderUserID = existing.LeaderUserID
		leaderRoleID = existing.LeaderRoleID
		citizenRoleID = existing.CitizenRoleID
		suspectRoleID = existing.SuspectRoleID
		autoReleaseHours = existing.AutoReleaseHours
	} else if !errors.Is(err, govdb.ErrNotFound) {
		followUpOperationError(s, i, "gov_setup", err)
		return
	}

	if opt, ok := opts["leader"]; ok {
		leaderUserID = opt.UserValue(nil).ID
	}
	if opt, ok := opts["leader_role"]; ok {
		leaderRoleID = opt.RoleValue(nil, "").ID
	}
	if opt, ok := opts["citizen_role"]; ok {
		citizenRoleID = opt.RoleValue(nil, "").ID
	}
	if opt, ok := opts["suspect_role"]; ok {
		suspectRoleID = opt.RoleValue(nil, "").ID
	}
	if opt, ok := opts["auto_release_hours"]; ok {
		autoReleaseHours = int(opt.IntValue())
	}

	cfg, err := b.Engine.SetupGuild(i.GuildID, leaderUserID, leaderRoleID, citizenRoleID, suspectRoleID, autoReleaseHours)
	if err != nil {
		followUpOperationError(s, i, "gov_setup", err)
		return
	}

	var lines string
	for _, dept := range model.AllDepartments() {
		lines += fmt.Sprintf("%s: `%d`\n", dept.DisplayName(), cfg.AccountIDFor(dept))
	}
	utils.SendFollowUp(s, i.Interaction, "✅ 政府配置已保存。部门账户：\n"+lines)
	utils.LogInfo(s, b.GetConfig().LogChannelID, "Government", "Setup",
		fmt.Sprintf("Guild %s configured by %s", i.GuildID, i.Member.User.ID))
}

func HandleGovDepartment(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if !canAdministrate(b, i) {
		utils.SendErrorResponse(s, i, "只有管理员或领导人可以配置部门。")
		return
	}
	if err := utils.DeferResponse(s, i, true); err != nil {
		return
	}

	opts := optionMap(i)
	deptKey := opts["department"].StringValue()
	if _, ok := model.DepartmentByKey(deptKey); !ok {
		utils.SendFollowUpError(s, i.Interaction, "未知部门。")
		return
	}

	setting := model.DepartmentSetting{GuildID: i.GuildID, Department: deptKey}
	if existing, err := govdb.GetDepartmentSetting(b.DB, i.GuildID, deptKey); err == nil {
		setting = *existing
	} else if !errors.Is(err, govdb.ErrNotFound) {
		followUpOperationError(s, i, "gov_department", err)
		return
	}

	if opt, ok := opts["role"]; ok {
		setting.RoleID = opt.RoleValue(nil, "").ID
	}
	if opt, ok := opts["welfare_amount"]; ok {
		setting.WelfareAmount = opt.IntValue()
	}
	if opt, ok := opts["welfare_interval_hours"]; ok {
		setting.WelfareIntervalHrs = opt.IntValue()
	}
	if opt, ok := opts["tax_basis"]; ok {
		setting.TaxBasis = opt.StringValue()
	}
	if opt, ok := opts["tax_percent"]; ok {
		rate := opt.IntValue()
		if rate <= 0 || rate > 100 {
			utils.SendFollowUpError(s, i.Interaction, "税率必须在 1 到 100 之间。")
			return
		}
		setting.TaxPercent = rate
	}
	if opt, ok := opts["max_issuance_per_month"]; ok {
		setting.MaxIssuancePerMonth = opt.IntValue()
	}
	setting.UpdatedAt = time.Now().Unix()

	if err := govdb.UpsertDepartmentSetting(b.DB, setting); err != nil {
		followUpOperationError(s, i, "gov_department", err)
		return
	}
	utils.SendFollowUp(s, i.Interaction, "✅ 部门设置已更新。")
}

func HandleGovRole(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if !canAdministrate(b, i) {
		utils.SendErrorResponse(s, i, "只有管理员或领导人可以管理部门授权。")
		return
	}
	if err := utils.DeferResponse(s, i, true); err != nil {
		return
	}

	opts := optionMap(i)
	deptKey := opts["department"].StringValue()
	action := opts["action"].StringValue()
	roleID := opts["role"].RoleValue(nil, "").ID
	now := time.Now().Unix()

	var err error
	switch action {
	case "add":
		err = govdb.AddDepartmentRole(b.DB, i.GuildID, deptKey, roleID, now)
		if errors.Is(err, govdb.ErrNotFound) {
			// First role for a department that has no policy row yet.
			setting := model.DepartmentSetting{GuildID: i.GuildID, Department: deptKey, ExtraRoleIDs: "[]", UpdatedAt: now}
			if err = govdb.UpsertDepartmentSetting(b.DB, setting); err == nil {
				err = govdb.AddDepartmentRole(b.DB, i.GuildID, deptKey, roleID, now)
			}
		}
	case "remove":
		err = govdb.RemoveDepartmentRole(b.DB, i.GuildID, deptKey, roleID, now)
	default:
		utils.SendFollowUpError(s, i.Interaction, "未知操作。")
		return
	}
	if err != nil {
		followUpOperationError(s, i, "gov_role", err)
		return
	}
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("✅ 部门授权已更新（%s <@&%s>）。", action, roleID))
}
