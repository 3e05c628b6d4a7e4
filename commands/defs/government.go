package defs

import "github.com/bwmarrin/discordgo"

func departmentChoices() []*discordgo.ApplicationCommandOptionChoice {
	return []*discordgo.ApplicationCommandOptionChoice{
		{Name: "Internal Affairs", Value: "internal_affairs"},
		{Name: "Finance", Value: "finance"},
		{Name: "Security", Value: "security"},
		{Name: "Central Bank", Value: "central_bank"},
	}
}

var GovSetup = &discordgo.ApplicationCommand{
	Name:        "gov_setup",
	Description: "Create or update the guild government configuration",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "政府设置",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "创建或更新服务器政府配置",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "leader",
			Description: "国家领导人",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "leader_role",
			Description: "领导人身份组",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "citizen_role",
			Description: "公民身份组",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "suspect_role",
			Description: "嫌疑人身份组",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "auto_release_hours",
			Description: "默认自动释放小时数 (1-168)",
			Required:    false,
		},
	},
}

var GovDepartment = &discordgo.ApplicationCommand{
	Name:        "gov_department",
	Description: "Configure a department's policy settings",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "部门设置",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "配置部门政策参数",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "department",
			Description: "要配置的部门",
			Required:    true,
			Choices:     departmentChoices(),
		},
		{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "role",
			Description: "部门授权身份组",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "welfare_amount",
			Description: "单次福利金额",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "welfare_interval_hours",
			Description: "福利发放间隔（小时）",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "tax_basis",
			Description: "征税基准说明",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "tax_percent",
			Description: "税率百分比 (1-100)",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "max_issuance_per_month",
			Description: "每月发行上限（0 为不限）",
			Required:    false,
		},
	},
}

var GovRole = &discordgo.ApplicationCommand{
	Name:        "gov_role",
	Description: "Add or remove an authorized role for a department",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "部门授权",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "为部门添加或移除授权身份组",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "department",
			Description: "目标部门",
			Required:    true,
			Choices:     departmentChoices(),
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "action",
			Description: "要执行的操作",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "添加", Value: "add"},
				{Name: "移除", Value: "remove"},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "role",
			Description: "授权身份组",
			Required:    true,
		},
	},
}

var Welfare = &discordgo.ApplicationCommand{
	Name:        "welfare",
	Description: "Disburse welfare from the Internal Affairs account",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "发放福利",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "从民政部账户向成员发放福利",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "领取福利的成员",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "amount",
			Description: "金额（留空时使用部门默认）",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "type",
			Description: "福利类型",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "发放原因",
			Required:    false,
		},
	},
}

var Tax = &discordgo.ApplicationCommand{
	Name:        "tax",
	Description: "Collect tax from a member into the Finance account",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "征税",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "从成员账户征税到财政部",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "纳税人",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "taxable_amount",
			Description: "计税金额",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "rate",
			Description: "税率百分比（留空时使用部门默认）",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "征税原因",
			Required:    false,
		},
	},
}

var Issue = &discordgo.ApplicationCommand{
	Name:        "issue",
	Description: "Issue new currency into the Central Bank account",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "发行货币",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "向央行账户发行新货币",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "amount",
			Description: "发行金额",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "发行原因",
			Required:    false,
		},
	},
}

var Transfer = &discordgo.ApplicationCommand{
	Name:        "transfer",
	Description: "Transfer funds from a department account",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "部门转账",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "从部门账户向其他部门或成员转账",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "from",
			Description: "转出部门",
			Required:    true,
			Choices:     departmentChoices(),
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "amount",
			Description: "转账金额",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "to",
			Description: "转入部门（与 user 二选一）",
			Required:    false,
			Choices:     departmentChoices(),
		},
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "转入成员（与 to 二选一）",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "转账原因",
			Required:    false,
		},
	},
}

var Reconcile = &discordgo.ApplicationCommand{
	Name:        "reconcile",
	Description: "Reconcile department balances against the economy ledger",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "对账",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "对比并修复部门账户与经济系统余额",
	},
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "strict",
			Description: "严格模式：同时回收经济系统多出的余额",
			Required:    false,
		},
	},
}

var Treasury = &discordgo.ApplicationCommand{
	Name:        "treasury",
	Description: "Show the current treasury report",
	NameLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "国库报告",
	},
	DescriptionLocalizations: &map[discordgo.Locale]string{
		discordgo.ChineseCN: "查看各部门账户余额报告",
	},
}
