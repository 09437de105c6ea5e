// Package scanner runs the periodic discovery and pin-update loops. Both
// loops talk to the content source and the chat platform through narrow
// interfaces so their behavior can be exercised without either.
package scanner

import (
	"context"

	"redditrequest-bot/classify"
	"redditrequest-bot/database"
	"redditrequest-bot/reddit"

	"github.com/bwmarrin/discordgo"
)

// Source is the content-source surface the loops need.
type Source interface {
	NewSubmissions(ctx context.Context, limit int) ([]reddit.Submission, error)
	Submission(ctx context.Context, id string) (*reddit.Submission, error)
	Comments(ctx context.Context, id string, limit, depth int) ([]classify.Comment, error)
	Redditor(ctx context.Context, name string) (*reddit.Redditor, error)
	Subreddit(ctx context.Context, name string) (*reddit.Subreddit, error)
	Moderators(ctx context.Context, name string) ([]string, error)
	RateLimitRemaining() float64
}

// Prober resolves subreddit visibility.
type Prober interface {
	Visibility(name string) classify.Visibility
}

// Channel is a notification target.
type Channel struct {
	ID      string
	GuildID string
	Name    string
}

// SentMessage identifies a delivered notification.
type SentMessage struct {
	ID        string
	ChannelID string
	GuildID   string
}

// Messenger is the chat-platform surface the loops need.
type Messenger interface {
	// TargetChannels lists every text channel whose name contains the
	// pattern, across all joined guilds.
	TargetChannels(pattern string) []Channel
	// SendNotification posts a notification payload to a channel.
	SendNotification(channel Channel, msg *discordgo.MessageSend) (*SentMessage, error)
	// SendThreadMessage posts an update into a pinned thread.
	SendThreadMessage(threadID, content string, embed *discordgo.MessageEmbed) error
	// LockAndArchive locks a thread and archives it.
	LockAndArchive(threadID string) error
}

// Deps bundles the collaborators and tuning knobs both loops run on.
type Deps struct {
	Store     database.Store
	Source    Source
	Prober    Prober
	Messenger Messenger

	ChannelName        string
	FindLimit          int
	RateLimitFloor     float64
	CommentLimit       int
	CommentDepth       int
	PinUpdateLimitDays int
}
