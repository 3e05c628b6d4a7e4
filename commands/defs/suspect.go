package defs

import "github.com/bwmarrin/discordgo"

var Detain = &discordgo.ApplicationCommand{
	Name:        "detain",
	Description: "Mark a member as suspect and swap their roles",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "逮捕",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "将成员标记为嫌疑人并更换身份组",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "要逮捕的成员",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "逮捕原因",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "auto_release",
			Description: "自动释放时间，如 36h 或 2d（留空时使用服务器默认）",
			Required:    false,
		},
	},
}

var Release = &discordgo.ApplicationCommand{
	Name:        "release",
	Description: "Release a suspect and restore their roles",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "释放",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "释放嫌疑人并恢复其身份组",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "要释放的嫌疑人",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "释放原因",
			Required:    false,
		},
	},
}

var Suspects = &discordgo.ApplicationCommand{
	Name:        "suspects",
	Description: "List current suspects",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "嫌疑人列表",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "查看当前嫌疑人名单",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "keyword",
			Description: "按用户名或 ID 过滤",
			Required:    false,
		},
	},
}
