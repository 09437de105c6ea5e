package models

import "time"

// Redditor represents a submission author and how often they were seen.
type Redditor struct {
	DBID         int64  `db:"id"`
	UserName     string `db:"user_name"` // Unique
	UserID       string `db:"user_id"`
	RequestCount int    `db:"request_count"`
}

// NotificationMessage maps a sent Discord message back to its submission.
// One row per channel the submission was posted to.
type NotificationMessage struct {
	DBID         int64  `db:"id"`
	MessageID    string `db:"message_id"` // Unique
	ChannelID    string `db:"channel_id"`
	GuildID      string `db:"guild_id"`
	SubmissionID string `db:"submission_id"`
}

// PinnedThread represents a notification message a user pinned into a thread.
// UpdateCount starts at 1 and is bumped on every re-pin of the same message.
type PinnedThread struct {
	DBID         int64     `db:"id"`
	MessageID    string    `db:"message_id"` // Unique
	ThreadID     string    `db:"thread_id"`
	GuildID      string    `db:"guild_id"`
	UserID       string    `db:"user_id"`
	SubmissionID string    `db:"submission_id"`
	UpdateCount  int       `db:"update_count"`
	CreatedAt    time.Time `db:"created_at"`
}

// ChannelRef is a (message, channel) pair a submission was posted to.
type ChannelRef struct {
	MessageID string
	ChannelID string
}

// StatusCount is the number of tracked submissions in a given status.
type StatusCount struct {
	Status string
	Count  int64
}
