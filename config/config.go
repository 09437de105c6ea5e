package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings is the typed view over the merged viper configuration.
type Settings struct {
	DevelopmentMode bool `mapstructure:"development_mode"`

	Discord struct {
		Token          string `mapstructure:"token"`
		AdminChannelID string `mapstructure:"admin_channel_id"`
	} `mapstructure:"discord"`

	Reddit struct {
		ClientID     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
		Username     string `mapstructure:"username"`
		Password     string `mapstructure:"password"`
		UserAgent    string `mapstructure:"user_agent"`
		Subreddit    string `mapstructure:"subreddit"`
	} `mapstructure:"reddit"`

	Database struct {
		Driver string `mapstructure:"driver"`
		Path   string `mapstructure:"path"`
	} `mapstructure:"database"`

	Monitor struct {
		APIKey string `mapstructure:"api_key"`
	} `mapstructure:"monitor"`

	Bot struct {
		ChannelName        string   `mapstructure:"channel_name"`
		PinLimit           int      `mapstructure:"pin_limit"`
		PinUpdateLimitDays int      `mapstructure:"pin_update_limit_days"`
		ExemptUsers        []string `mapstructure:"exempt_users"`
		FindLimit          int      `mapstructure:"find_limit"`
		RateLimitFloor     float64  `mapstructure:"rate_limit_floor"`
		CommentLimit       int      `mapstructure:"comment_limit"`
		CommentDepth       int      `mapstructure:"comment_depth"`
	} `mapstructure:"bot"`

	Schedules struct {
		FindSubmissions string `mapstructure:"find_submissions"`
		UpdatePinned    string `mapstructure:"update_pinned"`
		RefreshCommands string `mapstructure:"refresh_commands"`
	} `mapstructure:"schedules"`
}

// Load reads configuration from a .env file, config.yaml and environment
// variables. Environment variables override file settings.
func Load() (*Settings, error) {
	// Load environment variables from .env if present.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, skipping.")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found, using environment variables and defaults.")
		} else {
			return nil, fmt.Errorf("fatal error reading config file: %w", err)
		}
	}

	var settings Settings
	if err := viper.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	return &settings, nil
}

func setDefaults() {
	viper.SetDefault("development_mode", false)
	viper.SetDefault("reddit.subreddit", "redditrequest")
	viper.SetDefault("reddit.user_agent", "discord:redditrequest-bot:v1.0.0")
	viper.SetDefault("database.driver", "sqlite3")
	viper.SetDefault("database.path", "data/requests.db")
	viper.SetDefault("bot.channel_name", "redditrequest")
	viper.SetDefault("bot.pin_limit", 3)
	viper.SetDefault("bot.pin_update_limit_days", 15)
	viper.SetDefault("bot.find_limit", 25)
	viper.SetDefault("bot.rate_limit_floor", 300)
	viper.SetDefault("bot.comment_limit", 100)
	viper.SetDefault("bot.comment_depth", 5)
	viper.SetDefault("schedules.find_submissions", "*/10 * * * *")
	viper.SetDefault("schedules.update_pinned", "0 */6 * * *")
	viper.SetDefault("schedules.refresh_commands", "0 */12 * * *")
}

// FindSchedule returns the discovery cron expression, shortened to every
// minute in development mode.
func (s *Settings) FindSchedule() string {
	if s.DevelopmentMode {
		return "*/1 * * * *"
	}
	return s.Schedules.FindSubmissions
}

// UpdateSchedule returns the pin-update cron expression, shortened to every
// minute in development mode.
func (s *Settings) UpdateSchedule() string {
	if s.DevelopmentMode {
		return "*/1 * * * *"
	}
	return s.Schedules.UpdatePinned
}

// Env names the runtime environment reported to the health monitor.
func (s *Settings) Env() string {
	if s.DevelopmentMode {
		return "development"
	}
	return "production"
}
