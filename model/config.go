package model

// Config holds process-level configuration. Per-guild government
// configuration lives in the database, not here.
type Config struct {
	BotToken      string
	AppID         string
	LogChannelID  string
	DatabasePath  string
	SystemActorID string

	EconomyAPIBaseURL string
	EconomyAPIToken   string

	// AutoReleasePollMinutes is the scheduler polling interval; defaults to 5.
	AutoReleasePollMinutes int

	// TreasuryStatsChannels maps guild id to the channel receiving periodic
	// department balance summaries. Empty map disables the task.
	TreasuryStatsChannels map[string]string
}
