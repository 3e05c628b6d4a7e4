package defs

import "github.com/bwmarrin/discordgo"

var SystemInfo = &discordgo.ApplicationCommand{
	Name:        "system_info",
	Description: "Show host and bot runtime information",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "系统信息",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "查看主机与机器人运行信息",
	},
}
