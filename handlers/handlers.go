package handlers

import (
	"errors"
	"log"

	"github.com/bwmarrin/discordgo"

	"gov-bot/bot"
	"gov-bot/government"
	"gov-bot/suspects"
	"gov-bot/utils"
)

// Register installs the command handler map and gateway event handlers.
func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	wrap := func(h func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot)) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			h(s, i, b)
		}
	}
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"gov_setup":      wrap(HandleGovSetup),
		"gov_department": wrap(HandleGovDepartment),
		"gov_role":       wrap(HandleGovRole),
		"welfare":        wrap(HandleWelfare),
		"tax":            wrap(HandleTax),
		"issue":          wrap(HandleIssue),
		"transfer":       wrap(HandleTransfer),
		"reconcile":      wrap(HandleReconcile),
		"treasury":       wrap(HandleTreasury),
		"detain":         wrap(HandleDetain),
		"release":        wrap(HandleRelease),
		"suspects":       wrap(HandleSuspects),
		"system_info": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			SystemInfoHandler(s, i, b)
		},
	}
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})
	b.Session.AddHandler(b.Dispatch)
}

// optionMap flattens the interaction options for lookup by name.
func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

func interactionActor(i *discordgo.InteractionCreate) government.Actor {
	if i.Member == nil || i.Member.User == nil {
		return government.Actor{}
	}
	return government.Actor{ID: i.Member.User.ID, Roles: i.Member.Roles}
}

// operationErrorMessage maps the treasury error taxonomy to user-facing text.
func operationErrorMessage(err error) string {
	switch {
	case errors.Is(err, government.ErrNotConfigured):
		return "政府尚未设置，请先使用 /gov_setup。"
	case errors.Is(err, government.ErrPermissionDenied):
		return "你没有执行该操作的权限。"
	case errors.Is(err, government.ErrInsufficientFunds):
		return "部门账户余额不足。"
	case errors.Is(err, government.ErrMonthlyIssuanceLimit):
		return "本月货币发行已达上限。"
	case errors.Is(err, suspects.ErrSuspectCharged):
		return "该嫌疑人已被起诉，无法释放。"
	case errors.Is(err, government.ErrValidation):
		return "参数无效：" + err.Error()
	default:
		return "操作失败，请稍后重试。"
	}
}

func followUpOperationError(s *discordgo.Session, i *discordgo.InteractionCreate, operation string, err error) {
	log.Printf("Operation %s failed in guild %s: %v", operation, i.GuildID, err)
	utils.SendFollowUpError(s, i.Interaction, operationErrorMessage(err))
}
