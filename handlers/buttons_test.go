package handlers

import (
	"errors"
	"testing"

	"redditrequest-bot/models"
	"redditrequest-bot/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pinStore is a Store stub for the pin-limit decision: it serves a fixed pin
// count and records whether any row was ever written.
type pinStore struct {
	count    int
	countErr error
	putCalls int
}

func (s *pinStore) SubmissionExists(id string) (bool, error)         { return false, nil }
func (s *pinStore) PutSubmission(id, subreddit, status string) error { return nil }
func (s *pinStore) SubredditFor(submissionID string) (string, error) { return "", nil }
func (s *pinStore) UpsertRedditor(userName, userID string) error     { return nil }

func (s *pinStore) PutMessageBatch(batch []models.NotificationMessage) error { return nil }

func (s *pinStore) SubmissionIDFor(messageID, channelID string) (string, error) { return "", nil }

func (s *pinStore) MessageExists(messageID string) (bool, error) { return false, nil }
func (s *pinStore) DeleteMessage(messageID string) error         { return nil }

func (s *pinStore) ChannelsFor(submissionID string) ([]models.ChannelRef, error) { return nil, nil }

func (s *pinStore) PutPinnedThread(messageID, threadID, guildID, userID, submissionID string) error {
	s.putCalls++
	return nil
}

func (s *pinStore) PinnedCountFor(userID string) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.count, nil
}

func (s *pinStore) AllPinnedThreads() ([]models.PinnedThread, error) { return nil, nil }
func (s *pinStore) DeletePinnedThread(threadID string) error         { return nil }

func (s *pinStore) StatusCounts() ([]models.StatusCount, error) { return nil, nil }

func (s *pinStore) TopRedditors(limit int) ([]models.Redditor, error) { return nil, nil }

func (s *pinStore) Close() error { return nil }

func TestCanPinUnderLimit(t *testing.T) {
	store := &pinStore{count: 2}
	auth := utils.NewAuth(nil)

	allowed, count, err := canPin(store, auth, "u1", 3)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2, count)
}

func TestCanPinRejectsAtLimit(t *testing.T) {
	store := &pinStore{count: 3}
	auth := utils.NewAuth(nil)

	allowed, count, err := canPin(store, auth, "u1", 3)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 3, count)
	// A denied user must leave no trace in the store.
	assert.Equal(t, 0, store.putCalls)
}

func TestCanPinExemptUserBypassesLimit(t *testing.T) {
	store := &pinStore{count: 10}
	auth := utils.NewAuth([]string{"u1"})

	allowed, _, err := canPin(store, auth, "u1", 3)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCanPinPropagatesStoreError(t *testing.T) {
	store := &pinStore{countErr: errors.New("database locked")}
	auth := utils.NewAuth(nil)

	allowed, _, err := canPin(store, auth, "u1", 3)
	require.Error(t, err)
	assert.False(t, allowed)
}
