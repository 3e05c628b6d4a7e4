package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"gov-bot/bot"
	"gov-bot/model"
	"gov-bot/tasks"
	"gov-bot/utils"
	govdb "gov-bot/utils/database/government"
)

func HandleWelfare(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		return
	}

	opts := optionMap(i)
	recipient := opts["user"].UserValue(s)

	var amount int64
	if opt, ok := opts["amount"]; ok {
		amount = opt.IntValue()
	} else {
		setting, err := govdb.GetDepartmentSetting(b.DB, i.GuildID, model.DepartmentInternalAffairs.Key())
		if err != nil {
			if errors.Is(err, govdb.ErrNotFound) {
				utils.SendFollowUpError(s, i.Interaction, "未配置默认福利金额，请指定 amount。")
			} else {
				followUpOperationError(s, i, "welfare", err)
			}
			return
		}
		amount = setting.WelfareAmount
	}

	welfareType := "general"
	if opt, ok := opts["type"]; ok {
		welfareType = opt.StringValue()
	}
	reason := "welfare disbursement"
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	record, err := b.Engine.DisburseWelfare(i.GuildID, model.DepartmentInternalAffairs,
		interactionActor(i), recipient.ID, amount, welfareType, reason)
	if err != nil {
		followUpOperationError(s, i, "welfare", err)
		return
	}

	utils.SendFollowUp(s, i.Interaction,
		fmt.Sprintf("✅ 已向 <@%s> 发放福利 %d（记录 #%d）。", record.RecipientID, record.Amount, record.ID))
	utils.LogInfo(s, b.GetConfig().LogChannelID, "Treasury", "Welfare",
		fmt.Sprintf("%d to %s by %s in guild %s", record.Amount, record.RecipientID, record.AdminID, i.GuildID))
}

func HandleTax(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		return
	}

	opts := optionMap(i)
	taxpayer := opts["user"].UserValue(s)
	taxableAmount := opts["taxable_amount"].IntValue()

	var rate int64
	if opt, ok := opts["rate"]; ok {
		rate = opt.IntValue()
	} else {
		setting, err := govdb.GetDepartmentSetting(b.DB, i.GuildID, model.DepartmentFinance.Key())
		if err != nil {
			if errors.Is(err, govdb.ErrNotFound) {
				utils.SendFollowUpError(s, i.Interaction, "未配置默认税率，请指定 rate。")
			} else {
				followUpOperationError(s, i, "tax", err)
			}
			return
		}
		rate = setting.TaxPercent
	}

	reason := "tax collection"
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	record, err := b.Engine.CollectTax(i.GuildID, model.DepartmentFinance,
		interactionActor(i), taxpayer.ID, taxableAmount, rate, currentPeriod(), reason)
	if err != nil {
		followUpOperationError(s, i, "tax", err)
		return
	}

	utils.SendFollowUp(s, i.Interaction,
		fmt.Sprintf("✅ 已向 <@%s> 征税 %d（计税 %d，税率 %d%%）。", record.TaxpayerID, record.TaxAmount, record.TaxableAmount, record.RatePercent))
	utils.LogInfo(s, b.GetConfig().LogChannelID, "Treasury", "Tax",
		fmt.Sprintf("%d from %s by %s in guild %s", record.TaxAmount, record.TaxpayerID, record.AdminID, i.GuildID))
}

func HandleIssue(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		return
	}

	opts := optionMap(i)
	amount := opts["amount"].IntValue()
	reason := "currency issuance"
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	record, err := b.Engine.IssueCurrency(i.GuildID, model.DepartmentCentralBank,
		interactionActor(i), amount, reason, "")
	if err != nil {
		followUpOperationError(s, i, "issue", err)
		return
	}

	utils.SendFollowUp(s, i.Interaction,
		fmt.Sprintf("✅ 已发行 %d 到央行账户（%s 期）。", record.Amount, record.Period))
	utils.LogInfo(s, b.GetConfig().LogChannelID, "Treasury", "Issuance",
		fmt.Sprintf("%d in %s by %s in guild %s", record.Amount, record.Period, record.AdminID, i.GuildID))
}

func HandleTransfer(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		return
	}

	opts := optionMap(i)
	from, _ := model.DepartmentByKey(opts["from"].StringValue())
	amount := opts["amount"].IntValue()
	reason := "department transfer"
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	toOpt, hasTo := opts["to"]
	userOpt, hasUser := opts["user"]
	if hasTo == hasUser {
		utils.SendFollowUpError(s, i.Interaction, "请指定转入部门或转入成员之一。")
		return
	}

	if hasTo {
		to, _ := model.DepartmentByKey(toOpt.StringValue())
		record, err := b.Engine.TransferBetweenDepartments(i.GuildID, from, to, interactionActor(i), amount, reason)
		if err != nil {
			followUpOperationError(s, i, "transfer", err)
			return
		}
		utils.SendFollowUp(s, i.Interaction,
			fmt.Sprintf("✅ 已从 %s 向 %s 转账 %d。", from.DisplayName(), to.DisplayName(), record.Amount))
		utils.LogInfo(s, b.GetConfig().LogChannelID, "Treasury", "Transfer",
			fmt.Sprintf("%d from %s to %s by %s in guild %s", record.Amount, record.FromDepartment, record.ToDepartment, record.AdminID, i.GuildID))
		return
	}

	recipient := userOpt.UserValue(s)
	record, err := b.Engine.TransferDepartmentToUser(i.GuildID, from, interactionActor(i), recipient.ID, amount, reason)
	if err != nil {
		followUpOperationError(s, i, "transfer", err)
		return
	}
	utils.SendFollowUp(s, i.Interaction,
		fmt.Sprintf("✅ 已从 %s 向 <@%s> 转账 %d。", from.DisplayName(), record.RecipientID, record.Amount))
	utils.LogInfo(s, b.GetConfig().LogChannelID, "Treasury", "Transfer",
		fmt.Sprintf("%d from %s to user %s by %s in guild %s", record.Amount, record.FromDepartment, record.RecipientID, record.AdminID, i.GuildID))
}

func HandleReconcile(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if !canAdministrate(b, i) {
		utils.SendErrorResponse(s, i, "只有管理员或领导人可以发起对账。")
		return
	}
	if err := utils.DeferResponse(s, i, true); err != nil {
		return
	}

	strict := false
	if opt, ok := optionMap(i)["strict"]; ok {
		strict = opt.BoolValue()
	}

	actor := interactionActor(i)
	deltas, err := b.Engine.Reconciler().ReconcileGuild(i.GuildID, actor.ID, strict)
	if err != nil {
		followUpOperationError(s, i, "reconcile", err)
		return
	}

	var builder strings.Builder
	builder.WriteString("✅ 对账完成：\n")
	for _, dept := range model.AllDepartments() {
		delta, ok := deltas[dept]
		if !ok {
			continue
		}
		builder.WriteString(fmt.Sprintf("%s：差额 %d\n", dept.DisplayName(), delta))
	}
	utils.SendFollowUp(s, i.Interaction, builder.String())
	utils.LogInfo(s, b.GetConfig().LogChannelID, "Treasury", "Reconcile",
		fmt.Sprintf("guild %s by %s (strict=%v)", i.GuildID, actor.ID, strict))
}

func HandleTreasury(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		return
	}
	embed, err := tasks.GenerateTreasuryStatsEmbed(b.DB, i.GuildID)
	if err != nil {
		followUpOperationError(s, i, "treasury", err)
		return
	}
	utils.SendFollowUpEmbed(s, i.Interaction, embed)
}

func currentPeriod() string {
	return time.Now().Format("2006-01")
}
