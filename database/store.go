package database

import (
	"fmt"

	"redditrequest-bot/models"
)

// Store is the persistence contract for submissions, notification messages,
// redditors and pinned threads. One concrete adapter is selected from the
// configured driver at startup.
type Store interface {
	// SubmissionExists reports whether a submission was already processed.
	// This is the discovery dedup gate.
	SubmissionExists(id string) (bool, error)
	// PutSubmission records a newly discovered submission. Inserting the
	// same identifier twice is a no-op.
	PutSubmission(id, subreddit, status string) error
	// SubredditFor returns the subreddit a submission requested.
	SubredditFor(submissionID string) (string, error)

	// UpsertRedditor records an author, incrementing their request count
	// when they were seen before.
	UpsertRedditor(userName, userID string) error

	// PutMessageBatch records the notification messages delivered for one
	// submission, one row per channel, in a single statement batch.
	PutMessageBatch(batch []models.NotificationMessage) error
	// SubmissionIDFor resolves a notification message back to its
	// submission. Unknown messages return the empty string.
	SubmissionIDFor(messageID, channelID string) (string, error)
	// MessageExists reports whether a notification message is tracked.
	MessageExists(messageID string) (bool, error)
	// DeleteMessage forgets a notification message.
	DeleteMessage(messageID string) error
	// ChannelsFor lists every (message, channel) a submission was posted to.
	ChannelsFor(submissionID string) ([]models.ChannelRef, error)

	// PutPinnedThread records a pinned notification. Pinning the same
	// message again bumps its update count instead of adding a row.
	PutPinnedThread(messageID, threadID, guildID, userID, submissionID string) error
	// PinnedCountFor counts a user's active pins.
	PinnedCountFor(userID string) (int, error)
	// AllPinnedThreads lists every pinned thread awaiting updates.
	AllPinnedThreads() ([]models.PinnedThread, error)
	// DeletePinnedThread removes an archived thread's row.
	DeletePinnedThread(threadID string) error

	// StatusCounts aggregates tracked submissions by status.
	StatusCounts() ([]models.StatusCount, error)
	// TopRedditors lists the most frequent requesters.
	TopRedditors(limit int) ([]models.Redditor, error)

	Close() error
}

// Open selects and initializes the store adapter for the configured driver.
func Open(driver, path string) (Store, error) {
	switch driver {
	case "sqlite3":
		return openSQLite(path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
