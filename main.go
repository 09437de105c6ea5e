package main

import (
	"log"

	"redditrequest-bot/bot"
	"redditrequest-bot/config"
	"redditrequest-bot/database"
	"redditrequest-bot/handlers"
	"redditrequest-bot/reddit"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	// An unreachable store is fatal: the bot must not start without its
	// dedup and pin state.
	store, err := database.Open(settings.Database.Driver, settings.Database.Path)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	rc := reddit.NewClient(reddit.Credentials{
		ClientID:     settings.Reddit.ClientID,
		ClientSecret: settings.Reddit.ClientSecret,
		Username:     settings.Reddit.Username,
		Password:     settings.Reddit.Password,
		UserAgent:    settings.Reddit.UserAgent,
	}, settings.Reddit.Subreddit)

	bot.Run(settings, store, rc, handlers.Register)
}
