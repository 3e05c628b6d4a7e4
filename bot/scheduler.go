package bot

import (
	"log"
	"sync"
	"time"

	"gov-bot/tasks"
)

const treasuryStatsInterval = 1 * time.Hour

// Scheduler manages the process's background tasks: the auto-release loop
// and the periodic treasury stats reports.
type Scheduler struct {
	bot  *Bot
	done chan struct{}
	wg   sync.WaitGroup
}

// NewScheduler creates a scheduler for the bot.
func NewScheduler(bot *Bot) *Scheduler {
	return &Scheduler{
		bot:  bot,
		done: make(chan struct{}),
	}
}

// Start launches all background work.
func (s *Scheduler) Start() {
	s.bot.Releases.Start()

	s.wg.Add(1)
	go s.runTreasuryStats()
}

// Stop terminates background work, waiting for in-flight cycles.
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	close(s.done)
	s.wg.Wait()
	s.bot.Releases.Stop()
	log.Println("Scheduler stopped.")
}

func (s *Scheduler) runTreasuryStats() {
	defer s.wg.Done()
	ticker := time.NewTicker(treasuryStatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.updateTreasuryStats()
		case <-s.done:
			return
		}
	}
}

func (s *Scheduler) updateTreasuryStats() {
	channels := s.bot.GetConfig().TreasuryStatsChannels
	if len(channels) == 0 {
		return
	}
	for guildID, channelID := range channels {
		log.Printf("Updating treasury stats for guild: %s", guildID)
		tasks.UpdateTreasuryStats(s.bot.GetSession(), s.bot.GetDB(), guildID, channelID)
	}
}
