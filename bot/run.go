package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"gov-bot/commands"
	"gov-bot/utils"
)

// Run opens the gateway connection, registers commands, starts background
// work and blocks until a termination signal arrives.
func (b *Bot) Run() {
	if err := b.Session.Open(); err != nil {
		log.Fatalf("Error opening connection: %v", err)
	}

	log.Println("Registering government commands...")
	cmds := commands.Generate()
	registered, err := b.Session.ApplicationCommandBulkOverwrite(b.GetConfig().AppID, "", cmds)
	if err != nil {
		log.Printf("cannot register commands: %v", err)
	} else {
		b.RegisteredCommands = registered
	}

	b.scheduler.Start()

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	utils.LogInfo(b.Session, b.GetConfig().LogChannelID, "System", "Startup", "Government bot has started successfully.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
}

// Dispatch routes an interaction to its registered command handler.
func (b *Bot) Dispatch(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if handler, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
		handler(s, i)
	}
}
