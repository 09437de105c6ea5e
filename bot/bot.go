package bot

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"redditrequest-bot/classify"
	"redditrequest-bot/command"
	"redditrequest-bot/config"
	"redditrequest-bot/database"
	"redditrequest-bot/monitor"
	"redditrequest-bot/reddit"

	"github.com/bwmarrin/discordgo"
)

// Bot is the application context: the Discord session, the record store,
// the content-source client and the scheduler all hang off it, and shutdown
// is a method on it rather than a signal handler over globals.
type Bot struct {
	Session  *discordgo.Session
	Store    database.Store
	Reddit   *reddit.Client
	Prober   *classify.Prober
	Settings *config.Settings

	scheduler *scheduler
	monitors  []*monitor.Monitor
}

// New creates and initializes a new Bot instance.
func New(settings *config.Settings, store database.Store, rc *reddit.Client) (*Bot, error) {
	if settings.Discord.Token == "" {
		return nil, fmt.Errorf("no bot token provided")
	}

	dg, err := discordgo.New("Bot " + settings.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	return &Bot{
		Session:  dg,
		Store:    store,
		Reddit:   rc,
		Prober:   classify.NewProber(&http.Client{Timeout: 15 * time.Second}, settings.Reddit.UserAgent),
		Settings: settings,
	}, nil
}

// Start opens the session, registers the slash commands and starts the
// scheduled tasks.
func (b *Bot) Start(registerHandlers func(*Bot)) error {
	registerHandlers(b)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	if err := command.Register(b.Session); err != nil {
		log.Printf("Cannot register application commands: %v", err)
	}

	b.startScheduler()

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully shuts the bot down: scheduled tasks first, then the
// monitors are paused so nobody gets paged, then the session and store.
func (b *Bot) Stop() {
	log.Println("About to terminate application. Cleaning up...")

	b.stopScheduler()

	for _, m := range b.monitors {
		m.Pause(1)
	}

	if b.Session != nil {
		b.Session.Close()
	}
	if b.Store != nil {
		if err := b.Store.Close(); err != nil {
			log.Printf("Error closing store: %v", err)
		}
	}
	fmt.Println("Bot stopped gracefully.")
}

// Run is the main entry point for the bot application.
func Run(settings *config.Settings, store database.Store, rc *reddit.Client, registerHandlers func(*Bot)) {
	bot, err := New(settings, store, rc)
	if err != nil {
		log.Fatalf("Error initializing bot: %v", err)
	}

	if err := bot.Start(registerHandlers); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
}
