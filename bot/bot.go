package bot

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"

	"gov-bot/directory"
	"gov-bot/economy"
	"gov-bot/government"
	"gov-bot/model"
	"gov-bot/suspects"
)

// Bot wires the treasury core to a Discord session.
type Bot struct {
	Session            *discordgo.Session
	DB                 *sqlx.DB
	Ledger             economy.Ledger
	Directory          directory.Directory
	Engine             *government.Engine
	Suspects           *suspects.Manager
	Releases           *suspects.AutoReleaseScheduler
	RegisteredCommands []*discordgo.ApplicationCommand
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)

	config    atomic.Value // *model.Config
	scheduler *Scheduler
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func (b *Bot) GetDB() *sqlx.DB {
	return b.DB
}

// New builds the bot and its collaborators from configuration.
func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	dg.StateEnabled = false

	ledger := economy.NewClient(cfg.EconomyAPIBaseURL, cfg.EconomyAPIToken)
	dir := directory.NewDiscordDirectory(dg)
	jobs := suspects.NewJobQueue()
	manager := suspects.NewManager(db, dir, jobs)

	b := &Bot{
		Session:   dg,
		DB:        db,
		Ledger:    ledger,
		Directory: dir,
		Engine:    government.NewEngine(db, ledger),
		Suspects:  manager,
		Releases: suspects.NewAutoReleaseScheduler(manager, cfg.SystemActorID,
			time.Duration(cfg.AutoReleasePollMinutes)*time.Minute),
	}
	b.config.Store(cfg)
	b.scheduler = NewScheduler(b)
	return b, nil
}

// GetScheduler returns the background task scheduler.
func (b *Bot) GetScheduler() *Scheduler {
	return b.scheduler
}

// Close shuts down background work and the gateway connection.
func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	b.scheduler.Stop()
	b.Session.Close()
}
