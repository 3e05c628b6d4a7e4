package commands

import (
	"github.com/bwmarrin/discordgo"

	"gov-bot/commands/defs"
)

// Generate returns the full global command set for bulk registration.
func Generate() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.GovSetup,
		defs.GovDepartment,
		defs.GovRole,
		defs.Welfare,
		defs.Tax,
		defs.Issue,
		defs.Transfer,
		defs.Reconcile,
		defs.Treasury,
		defs.Detain,
		defs.Release,
		defs.Suspects,
		defs.SystemInfo,
	}
}
