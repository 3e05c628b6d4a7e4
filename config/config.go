package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"gov-bot/model"
)

// Load reads configuration from the environment and the optional
// data/government_config.json file. Environment variables win over file
// values.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	v := viper.New()
	v.SetDefault("database_path", "data/government.db")
	v.SetDefault("system_actor_id", "government-bot")
	v.SetDefault("auto_release_poll_minutes", 5)
	v.SetDefault("treasury_stats_channels", map[string]string{})

	v.SetConfigFile("data/government_config.json")
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok || os.IsNotExist(err) {
			log.Println("Warning: data/government_config.json not found, using defaults")
		} else if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			log.Println("Warning: data/government_config.json not found, using defaults")
		} else {
			return nil, err
		}
	}

	v.AutomaticEnv()

	token := v.GetString("BOT_TOKEN")
	if token == "" {
		log.Fatal("Error: BOT_TOKEN environment variable not set")
	}
	appID := v.GetString("APP_ID")
	if appID == "" {
		log.Fatal("Error: APP_ID environment variable not set")
	}
	logChannelID := v.GetString("LOG_CHANNEL_ID")
	if logChannelID == "" {
		log.Println("Warning: LOG_CHANNEL_ID not set, channel logging will be disabled")
	}

	cfg := &model.Config{
		BotToken:               token,
		AppID:                  appID,
		LogChannelID:           logChannelID,
		DatabasePath:           v.GetString("database_path"),
		SystemActorID:          v.GetString("system_actor_id"),
		EconomyAPIBaseURL:      v.GetString("ECONOMY_API_BASE_URL"),
		EconomyAPIToken:        v.GetString("ECONOMY_API_TOKEN"),
		AutoReleasePollMinutes: v.GetInt("auto_release_poll_minutes"),
		TreasuryStatsChannels:  v.GetStringMapString("treasury_stats_channels"),
	}

	if cfg.EconomyAPIBaseURL == "" {
		log.Fatal("Error: ECONOMY_API_BASE_URL environment variable not set")
	}

	return cfg, nil
}
