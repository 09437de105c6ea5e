package scanner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"redditrequest-bot/classify"
	"redditrequest-bot/embeds"
	"redditrequest-bot/models"
	"redditrequest-bot/reddit"

	"github.com/bwmarrin/discordgo"
)

// rateLimitPause is the advisory backoff applied when the content source's
// remaining request budget drops below the configured floor.
const rateLimitPause = 500 * time.Millisecond

// FindSubmissions runs one discovery tick: it fetches the newest batch of
// submissions, skips everything the store already knows, classifies the
// rest, fans notifications out to every target channel and records the
// results. A failure on one submission never aborts the rest of the batch.
func FindSubmissions(ctx context.Context, d Deps) error {
	log.Println("Finding new submissions...")

	submissions, err := d.Source.NewSubmissions(ctx, d.FindLimit)
	if err != nil {
		return fmt.Errorf("failed to list new submissions: %w", err)
	}

	channels := d.Messenger.TargetChannels(d.ChannelName)
	if len(channels) == 0 {
		log.Printf("No channels matching %q found, nothing to post to.", d.ChannelName)
	}

	for i := range submissions {
		sub := &submissions[i]

		// Dedup gate: never touch a submission twice. Checked before any
		// other network or store call.
		exists, err := d.Store.SubmissionExists(sub.ID)
		if err != nil {
			log.Printf("Failed to check submission %s: %v", sub.ID, err)
			continue
		}
		if exists {
			continue
		}

		// Advisory backoff when the request budget runs low.
		if d.Source.RateLimitRemaining() < d.RateLimitFloor {
			log.Println("Rate limit budget low, waiting for half a second")
			time.Sleep(rateLimitPause)
		}

		if err := processSubmission(ctx, d, sub, channels); err != nil {
			log.Printf("Failed to process submission %s: %v", sub.ID, err)
		}
	}

	return nil
}

func processSubmission(ctx context.Context, d Deps, sub *reddit.Submission, channels []Channel) error {
	subredditName := embeds.SubredditName(sub.URL)
	if subredditName == "" {
		return fmt.Errorf("could not extract subreddit name from %q", sub.URL)
	}

	view, err := BuildView(ctx, d, sub)
	if err != nil {
		return err
	}

	log.Printf("Looking at submission %s: %s", sub.ID, subredditName)

	msg := &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embeds.Submission(view)},
		Components: embeds.Buttons(sub, view.AuthorName, subredditName),
	}

	// Fan out to all channels concurrently and keep whatever got through.
	sent := fanOut(d.Messenger, channels, msg)

	if err := d.Store.PutSubmission(sub.ID, subredditName, view.Status.String()); err != nil {
		return err
	}

	authorID := ""
	if view.Author != nil {
		authorID = view.Author.ID
	}
	if err := d.Store.UpsertRedditor(view.AuthorName, authorID); err != nil {
		log.Printf("Failed to record redditor %s: %v", view.AuthorName, err)
	}

	batch := make([]models.NotificationMessage, 0, len(sent))
	for _, m := range sent {
		batch = append(batch, models.NotificationMessage{
			MessageID:    m.ID,
			ChannelID:    m.ChannelID,
			GuildID:      m.GuildID,
			SubmissionID: sub.ID,
		})
	}
	if err := d.Store.PutMessageBatch(batch); err != nil {
		return err
	}

	return nil
}

// fanOut delivers one notification to every channel concurrently and
// returns the messages that were actually delivered. Partial failure is
// expected; missing permissions on one guild must not silence the others.
func fanOut(m Messenger, channels []Channel, msg *discordgo.MessageSend) []SentMessage {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		sent []SentMessage
	)
	for _, channel := range channels {
		wg.Add(1)
		go func(channel Channel) {
			defer wg.Done()
			delivered, err := m.SendNotification(channel, msg)
			if err != nil {
				log.Printf("Couldn't send message in channel %s: %v", channel.ID, err)
				return
			}
			mu.Lock()
			sent = append(sent, *delivered)
			mu.Unlock()
		}(channel)
	}
	wg.Wait()
	return sent
}

// BuildView gathers everything needed to render a submission: its
// classification, the subreddit's visibility and metadata, and the author.
// A deleted or suspended author degrades to the placeholder instead of
// failing the whole submission.
func BuildView(ctx context.Context, d Deps, sub *reddit.Submission) (embeds.View, error) {
	subredditName := embeds.SubredditName(sub.URL)

	comments, err := d.Source.Comments(ctx, sub.ID, d.CommentLimit, d.CommentDepth)
	if err != nil {
		return embeds.View{}, fmt.Errorf("failed to fetch comments: %w", err)
	}
	status := classify.Classify(comments, d.CommentLimit, d.CommentDepth)
	visibility := d.Prober.Visibility(subredditName)

	view := embeds.View{
		Submission: sub,
		Status:     status,
		Visibility: visibility,
		AuthorName: "[deleted]",
	}

	author, err := d.Source.Redditor(ctx, sub.Author)
	switch {
	case errors.Is(err, reddit.ErrRedditorNotFound):
		// Deleted account, keep the placeholder.
	case err != nil:
		log.Printf("Failed to fetch author %s: %v", sub.Author, err)
	case author.Suspended:
		view.AuthorName = author.Name
	default:
		view.Author = author
		view.AuthorName = author.Name
	}

	// Subreddit metadata is only reachable while the subreddit is visible.
	if visibility == classify.VisibilityPublic || visibility == classify.VisibilityRestricted {
		if subreddit, err := d.Source.Subreddit(ctx, subredditName); err == nil {
			view.Subreddit = subreddit
		} else {
			log.Printf("Failed to fetch subreddit %s: %v", subredditName, err)
		}
		if moderators, err := d.Source.Moderators(ctx, subredditName); err == nil {
			view.Moderators = moderators
		}
	}

	return view, nil
}
