package handlers

import (
	"log"

	"redditrequest-bot/bot"

	"github.com/bwmarrin/discordgo"
)

// MessageDelete cleans up the notification record when a tracked message is
// deleted upstream. Unknown messages are ignored.
func MessageDelete(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageDelete) {
	return func(s *discordgo.Session, m *discordgo.MessageDelete) {
		exists, err := b.Store.MessageExists(m.ID)
		if err != nil {
			log.Printf("Failed to check deleted message %s: %v", m.ID, err)
			return
		}
		if !exists {
			return
		}
		if err := b.Store.DeleteMessage(m.ID); err != nil {
			log.Printf("Failed to delete message record %s: %v", m.ID, err)
			return
		}
		log.Printf("Removed deleted message %s from database", m.ID)
	}
}
