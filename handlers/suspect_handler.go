package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"gov-bot/bot"
	"gov-bot/model"
	"gov-bot/utils"
	govdb "gov-bot/utils/database/government"
)

func HandleDetain(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		return
	}

	opts := optionMap(i)
	target := opts["user"].UserValue(s)
	reason := opts["reason"].StringValue()

	hours := 0
	if opt, ok := opts["auto_release"]; ok {
		parsed, err := utils.ParseHours(opt.StringValue())
		if err != nil {
			utils.SendFollowUpError(s, i.Interaction, "无法解析自动释放时间，请使用 36h 或 2d 这样的格式。")
			return
		}
		hours = parsed
	} else if cfg, err := govdb.GetGovConfig(b.DB, i.GuildID); err == nil {
		hours = cfg.AutoReleaseHours
	}

	actor := interactionActor(i)
	result, err := b.Suspects.Arrest(i.GuildID, target.ID, reason, actor)
	if err != nil {
		followUpOperationError(s, i, "detain", err)
		return
	}

	var job *model.AutoReleaseJob
	if hours > 0 {
		scheduled := b.Releases.Schedule(i.GuildID, target.ID, hours, actor.ID)
		job = &scheduled
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("✅ 已逮捕 <@%s>（记录 #%d）。", target.ID, result.Record.ID))
	if !result.SuspectRoleSet {
		builder.WriteString("\n⚠️ 嫌疑人身份组未能添加，请手动处理。")
	}
	if job != nil {
		builder.WriteString(fmt.Sprintf("\n⏲️ 将于 <t:%d:f> 自动释放。", job.ReleaseAt.Unix()))
	}
	utils.SendFollowUp(s, i.Interaction, builder.String())
	utils.LogInfo(s, b.GetConfig().LogChannelID, "Suspects", "Detain",
		fmt.Sprintf("%s detained by %s in guild %s: %s", target.ID, actor.ID, i.GuildID, reason))
}

func HandleRelease(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		return
	}

	opts := optionMap(i)
	target := opts["user"].UserValue(s)
	reason := "released by operator"
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	actor := interactionActor(i)
	results, err := b.Suspects.Release(i.GuildID, []string{target.ID}, reason, actor, false)
	if err != nil {
		followUpOperationError(s, i, "release", err)
		return
	}

	result := results[0]
	if result.Err != nil {
		followUpOperationError(s, i, "release", result.Err)
		return
	}

	message := fmt.Sprintf("✅ 已释放 <@%s>。", target.ID)
	if !result.RoleRestored {
		message += "\n⚠️ 部分身份组未能恢复，请手动处理。"
	}
	utils.SendFollowUp(s, i.Interaction, message)
	utils.LogInfo(s, b.GetConfig().LogChannelID, "Suspects", "Release",
		fmt.Sprintf("%s released by %s in guild %s: %s", target.ID, actor.ID, i.GuildID, reason))
}

func HandleSuspects(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		return
	}

	keyword := ""
	if opt, ok := optionMap(i)["keyword"]; ok {
		keyword = opt.StringValue()
	}

	profiles, err := b.Suspects.ListSuspects(i.GuildID, keyword)
	if err != nil {
		followUpOperationError(s, i, "suspects", err)
		return
	}
	if len(profiles) == 0 {
		utils.SendFollowUp(s, i.Interaction, "当前没有嫌疑人。")
		return
	}

	var builder strings.Builder
	for idx, profile := range profiles {
		if idx >= 25 {
			builder.WriteString(fmt.Sprintf("……以及另外 %d 人\n", len(profiles)-idx))
			break
		}
		builder.WriteString(fmt.Sprintf("**%s** (<@%s>) · %s", profile.DisplayName, profile.UserID, profile.Status))
		if profile.ArrestedAt > 0 {
			builder.WriteString(fmt.Sprintf("，逮捕于 <t:%d:d>", profile.ArrestedAt))
		}
		if !profile.ReleaseAt.IsZero() {
			builder.WriteString(fmt.Sprintf("，<t:%d:R> 自动释放", profile.ReleaseAt.Unix()))
		}
		if profile.Reason != "" {
			builder.WriteString("\n> " + profile.Reason)
		}
		builder.WriteString("\n")
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("嫌疑人名单（%d）", len(profiles)),
		Description: builder.String(),
		Color:       0xED4245,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	utils.SendFollowUpEmbed(s, i.Interaction, embed)
}
