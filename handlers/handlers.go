package handlers

import (
	"log"

	"redditrequest-bot/bot"
	"redditrequest-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// Register all handlers to the bot.
func Register(b *bot.Bot) {
	b.Session.AddHandler(InteractionCreate(b))
	b.Session.AddHandler(MessageDelete(b))

	// Add a ready handler to log when the bot is connected.
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		utils.InitLogger(s)
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
		utils.Info("bot", "ready", "Connected and scheduled tasks running")
	})
}
