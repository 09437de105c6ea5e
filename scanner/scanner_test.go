package scanner

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"redditrequest-bot/classify"
	"redditrequest-bot/models"
	"redditrequest-bot/reddit"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store that records what the loops write.
type fakeStore struct {
	mu          sync.Mutex
	submissions map[string]string
	subreddits  map[string]string
	redditors   map[string]int
	messages    []models.NotificationMessage
	pinned      []models.PinnedThread
	deleted     []string

	existsErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		submissions: map[string]string{},
		subreddits:  map[string]string{},
		redditors:   map[string]int{},
	}
}

func (s *fakeStore) SubmissionExists(id string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.submissions[id]
	return ok, nil
}

func (s *fakeStore) PutSubmission(id, subreddit, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.submissions[id]; !ok {
		s.submissions[id] = status
		s.subreddits[id] = subreddit
	}
	return nil
}

func (s *fakeStore) SubredditFor(submissionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subreddits[submissionID], nil
}

func (s *fakeStore) UpsertRedditor(userName, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redditors[userName]++
	return nil
}

func (s *fakeStore) PutMessageBatch(batch []models.NotificationMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, batch...)
	return nil
}

func (s *fakeStore) SubmissionIDFor(messageID, channelID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.MessageID == messageID && m.ChannelID == channelID {
			return m.SubmissionID, nil
		}
	}
	return "", nil
}

func (s *fakeStore) MessageExists(messageID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.MessageID == messageID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) DeleteMessage(messageID string) error { return nil }

func (s *fakeStore) ChannelsFor(submissionID string) ([]models.ChannelRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var refs []models.ChannelRef
	for _, m := range s.messages {
		if m.SubmissionID == submissionID {
			refs = append(refs, models.ChannelRef{MessageID: m.MessageID, ChannelID: m.ChannelID})
		}
	}
	return refs, nil
}

func (s *fakeStore) PutPinnedThread(messageID, threadID, guildID, userID, submissionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pinned = append(s.pinned, models.PinnedThread{
		MessageID: messageID, ThreadID: threadID, GuildID: guildID,
		UserID: userID, SubmissionID: submissionID,
	})
	return nil
}

func (s *fakeStore) PinnedCountFor(userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, p := range s.pinned {
		if p.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) AllPinnedThreads() ([]models.PinnedThread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.PinnedThread(nil), s.pinned...), nil
}

func (s *fakeStore) DeletePinnedThread(threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, threadID)
	kept := s.pinned[:0]
	for _, p := range s.pinned {
		if p.ThreadID != threadID {
			kept = append(kept, p)
		}
	}
	s.pinned = kept
	return nil
}

func (s *fakeStore) StatusCounts() ([]models.StatusCount, error) { return nil, nil }

func (s *fakeStore) TopRedditors(limit int) ([]models.Redditor, error) { return nil, nil }

func (s *fakeStore) Close() error { return nil }

// fakeSource serves canned submissions, comments and profiles and counts
// what was asked of it.
type fakeSource struct {
	submissions []reddit.Submission
	comments    map[string][]classify.Comment
	commentsErr map[string]error
	redditors   map[string]*reddit.Redditor
	redditorErr map[string]error
	subreddits  map[string]*reddit.Subreddit
	moderators  map[string][]string
	rate        float64

	commentCalls   []string
	subredditCalls []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		comments:    map[string][]classify.Comment{},
		commentsErr: map[string]error{},
		redditors:   map[string]*reddit.Redditor{},
		redditorErr: map[string]error{},
		subreddits:  map[string]*reddit.Subreddit{},
		moderators:  map[string][]string{},
		rate:        600,
	}
}

func (f *fakeSource) NewSubmissions(ctx context.Context, limit int) ([]reddit.Submission, error) {
	return f.submissions, nil
}

func (f *fakeSource) Submission(ctx context.Context, id string) (*reddit.Submission, error) {
	for i := range f.submissions {
		if f.submissions[i].ID == id {
			return &f.submissions[i], nil
		}
	}
	return nil, errors.New("submission not found")
}

func (f *fakeSource) Comments(ctx context.Context, id string, limit, depth int) ([]classify.Comment, error) {
	f.commentCalls = append(f.commentCalls, id)
	if err := f.commentsErr[id]; err != nil {
		return nil, err
	}
	return f.comments[id], nil
}

func (f *fakeSource) Redditor(ctx context.Context, name string) (*reddit.Redditor, error) {
	if err := f.redditorErr[name]; err != nil {
		return nil, err
	}
	if r, ok := f.redditors[name]; ok {
		return r, nil
	}
	return nil, reddit.ErrRedditorNotFound
}

func (f *fakeSource) Subreddit(ctx context.Context, name string) (*reddit.Subreddit, error) {
	f.subredditCalls = append(f.subredditCalls, name)
	if s, ok := f.subreddits[name]; ok {
		return s, nil
	}
	return nil, errors.New("subreddit not found")
}

func (f *fakeSource) Moderators(ctx context.Context, name string) ([]string, error) {
	return f.moderators[name], nil
}

func (f *fakeSource) RateLimitRemaining() float64 { return f.rate }

// fakeProber returns a fixed visibility per subreddit.
type fakeProber struct {
	visibility map[string]classify.Visibility
}

func (f *fakeProber) Visibility(name string) classify.Visibility {
	if v, ok := f.visibility[name]; ok {
		return v
	}
	return classify.VisibilityPublic
}

// fakeMessenger records deliveries and can fail specific channels.
type fakeMessenger struct {
	mu       sync.Mutex
	channels []Channel
	failing  map[string]bool

	sent       []SentMessage
	threadMsgs []string
	archived   []string
	nextID     int
}

func (f *fakeMessenger) TargetChannels(pattern string) []Channel { return f.channels }

func (f *fakeMessenger) SendNotification(channel Channel, msg *discordgo.MessageSend) (*SentMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[channel.ID] {
		return nil, errors.New("missing permissions")
	}
	f.nextID++
	m := SentMessage{ID: "msg-" + channel.ID, ChannelID: channel.ID, GuildID: channel.GuildID}
	f.sent = append(f.sent, m)
	return &m, nil
}

func (f *fakeMessenger) SendThreadMessage(threadID, content string, embed *discordgo.MessageEmbed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.threadMsgs = append(f.threadMsgs, threadID+": "+content)
	return nil
}

func (f *fakeMessenger) LockAndArchive(threadID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.archived = append(f.archived, threadID)
	return nil
}

func testDeps(store *fakeStore, source *fakeSource, messenger *fakeMessenger) Deps {
	return Deps{
		Store:              store,
		Source:             source,
		Prober:             &fakeProber{visibility: map[string]classify.Visibility{}},
		Messenger:          messenger,
		ChannelName:        "redditrequest",
		FindLimit:          25,
		RateLimitFloor:     300,
		CommentLimit:       100,
		CommentDepth:       5,
		PinUpdateLimitDays: 15,
	}
}

func grantedComments() []classify.Comment {
	return []classify.Comment{
		{Body: "Your request has been granted.", AuthorFlairText: "Reddit Admin"},
	}
}

func unrecognizedAdminComments() []classify.Comment {
	return []classify.Comment{
		{Body: "Thanks, we are looking into it.", AuthorFlairText: "Reddit Admin"},
	}
}

func TestFindSubmissionsRecordsNewSubmission(t *testing.T) {
	store := newFakeStore()
	source := newFakeSource()
	source.submissions = []reddit.Submission{
		{ID: "abc123", Title: "Requesting r/golang", URL: "https://www.reddit.com/r/golang/", Author: "requester"},
	}
	source.comments["abc123"] = grantedComments()
	source.redditors["requester"] = &reddit.Redditor{ID: "u1", Name: "requester"}
	source.subreddits["golang"] = &reddit.Subreddit{DisplayName: "golang"}
	messenger := &fakeMessenger{channels: []Channel{
		{ID: "c1", GuildID: "g1", Name: "redditrequest"},
		{ID: "c2", GuildID: "g2", Name: "redditrequest"},
	}}

	err := FindSubmissions(context.Background(), testDeps(store, source, messenger))
	require.NoError(t, err)

	assert.Equal(t, "granted", store.submissions["abc123"])
	assert.Equal(t, "golang", store.subreddits["abc123"])
	assert.Equal(t, 1, store.redditors["requester"])

	require.Len(t, store.messages, 2)
	channels := []string{store.messages[0].ChannelID, store.messages[1].ChannelID}
	sort.Strings(channels)
	assert.Equal(t, []string{"c1", "c2"}, channels)
	assert.Equal(t, "abc123", store.messages[0].SubmissionID)
}

func TestFindSubmissionsStoresErrorForUnrecognizedRuling(t *testing.T) {
	store := newFakeStore()
	source := newFakeSource()
	source.submissions = []reddit.Submission{
		{ID: "abc123", URL: "https://www.reddit.com/r/golang/", Author: "requester"},
	}
	source.comments["abc123"] = unrecognizedAdminComments()
	messenger := &fakeMessenger{channels: []Channel{{ID: "c1", GuildID: "g1"}}}

	err := FindSubmissions(context.Background(), testDeps(store, source, messenger))
	require.NoError(t, err)

	// An admin replied but matched no ruling: recorded, not dropped.
	assert.Equal(t, "error", store.submissions["abc123"])
	require.Len(t, store.messages, 1)
}

func TestFindSubmissionsSkipsKnownSubmissions(t *testing.T) {
	store := newFakeStore()
	store.submissions["abc123"] = "granted"
	source := newFakeSource()
	source.submissions = []reddit.Submission{
		{ID: "abc123", URL: "https://www.reddit.com/r/golang/", Author: "requester"},
	}
	messenger := &fakeMessenger{channels: []Channel{{ID: "c1", GuildID: "g1"}}}

	err := FindSubmissions(context.Background(), testDeps(store, source, messenger))
	require.NoError(t, err)

	// Known submissions never trigger another fetch or delivery.
	assert.Empty(t, source.commentCalls)
	assert.Empty(t, messenger.sent)
	assert.Empty(t, store.messages)
}

func TestFindSubmissionsIsolatesFailures(t *testing.T) {
	store := newFakeStore()
	source := newFakeSource()
	source.submissions = []reddit.Submission{
		{ID: "bad", URL: "https://www.reddit.com/r/broken/", Author: "requester"},
		{ID: "good", URL: "https://www.reddit.com/r/golang/", Author: "requester"},
	}
	source.commentsErr["bad"] = errors.New("upstream 503")
	source.comments["good"] = grantedComments()
	source.redditors["requester"] = &reddit.Redditor{ID: "u1", Name: "requester"}
	messenger := &fakeMessenger{channels: []Channel{{ID: "c1", GuildID: "g1"}}}

	err := FindSubmissions(context.Background(), testDeps(store, source, messenger))
	require.NoError(t, err)

	_, badRecorded := store.submissions["bad"]
	assert.False(t, badRecorded)
	assert.Equal(t, "granted", store.submissions["good"])
	require.Len(t, store.messages, 1)
}

func TestFindSubmissionsPartialFanOut(t *testing.T) {
	store := newFakeStore()
	source := newFakeSource()
	source.submissions = []reddit.Submission{
		{ID: "abc123", URL: "https://www.reddit.com/r/golang/", Author: "requester"},
	}
	source.comments["abc123"] = grantedComments()
	messenger := &fakeMessenger{
		channels: []Channel{
			{ID: "c1", GuildID: "g1"},
			{ID: "c2", GuildID: "g2"},
		},
		failing: map[string]bool{"c2": true},
	}

	err := FindSubmissions(context.Background(), testDeps(store, source, messenger))
	require.NoError(t, err)

	// The failed channel drops out, the delivered one is still recorded.
	require.Len(t, store.messages, 1)
	assert.Equal(t, "c1", store.messages[0].ChannelID)
	assert.Equal(t, "granted", store.submissions["abc123"])
}

func TestBuildViewDeletedAuthor(t *testing.T) {
	store := newFakeStore()
	source := newFakeSource()
	sub := &reddit.Submission{ID: "abc123", URL: "https://www.reddit.com/r/golang/", Author: "ghost"}
	source.comments["abc123"] = nil

	view, err := BuildView(context.Background(), testDeps(store, source, &fakeMessenger{}), sub)
	require.NoError(t, err)

	assert.Equal(t, "[deleted]", view.AuthorName)
	assert.Nil(t, view.Author)
	assert.Equal(t, classify.StatusNotAssessed, view.Status)
}

func TestBuildViewSuspendedAuthorKeepsNameOnly(t *testing.T) {
	store := newFakeStore()
	source := newFakeSource()
	sub := &reddit.Submission{ID: "abc123", URL: "https://www.reddit.com/r/golang/", Author: "troubled"}
	source.redditors["troubled"] = &reddit.Redditor{Name: "troubled", Suspended: true}

	view, err := BuildView(context.Background(), testDeps(store, source, &fakeMessenger{}), sub)
	require.NoError(t, err)

	assert.Equal(t, "troubled", view.AuthorName)
	assert.Nil(t, view.Author)
}

func TestBuildViewSkipsMetadataForPrivateSubreddit(t *testing.T) {
	store := newFakeStore()
	source := newFakeSource()
	sub := &reddit.Submission{ID: "abc123", URL: "https://www.reddit.com/r/secret/", Author: "requester"}
	deps := testDeps(store, source, &fakeMessenger{})
	deps.Prober = &fakeProber{visibility: map[string]classify.Visibility{
		"secret": classify.VisibilityPrivate,
	}}

	view, err := BuildView(context.Background(), deps, sub)
	require.NoError(t, err)

	assert.Equal(t, classify.VisibilityPrivate, view.Visibility)
	assert.Nil(t, view.Subreddit)
	// Private subreddits are never asked for metadata.
	assert.Empty(t, source.subredditCalls)
}
