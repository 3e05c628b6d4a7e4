package tasks

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"

	"gov-bot/model"
	govdb "gov-bot/utils/database/government"
)

// GenerateTreasuryStatsEmbed builds the per-department balance summary for
// a guild from the governance cache.
func GenerateTreasuryStatsEmbed(db *sqlx.DB, guildID string) (*discordgo.MessageEmbed, error) {
	accounts, err := govdb.ListAccounts(db, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts for guild %s: %v", guildID, err)
	}

	period := time.Now().Format("2006-01")
	issued, err := govdb.SumIssuedInMonth(db, guildID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to get issuance sum for guild %s: %v", guildID, err)
	}

	byDept := make(map[string]model.GovernmentAccount, len(accounts))
	var total int64
	for _, account := range accounts {
		byDept[account.Department] = account
		total += account.Balance
	}

	var builder strings.Builder
	builder.WriteString("### Department balances\n")
	for _, dept := range model.AllDepartments() {
		account, ok := byDept[dept.Key()]
		if !ok {
			builder.WriteString(fmt.Sprintf("**%s**: no account\n", dept.DisplayName()))
			continue
		}
		builder.WriteString(fmt.Sprintf("**%s**: %d\n", dept.DisplayName(), account.Balance))
	}
	builder.WriteString(fmt.Sprintf("\n**Total**: %d\n", total))
	builder.WriteString(fmt.Sprintf("**Issued in %s**: %d\n", period, issued))

	embed := &discordgo.MessageEmbed{
		Title:       "Treasury Report",
		Description: builder.String(),
		Timestamp:   time.Now().Format(time.RFC3339),
		Color:       0x00ff00,
	}
	return embed, nil
}

// UpdateTreasuryStats posts the treasury summary to the configured channel.
func UpdateTreasuryStats(s *discordgo.Session, db *sqlx.DB, guildID, channelID string) {
	embed, err := GenerateTreasuryStatsEmbed(db, guildID)
	if err != nil {
		log.Printf("Failed to generate treasury stats embed: %v", err)
		return
	}

	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.Printf("Failed to send treasury stats message to channel %s: %v", channelID, err)
	}
}
