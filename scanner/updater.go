package scanner

import (
	"context"
	"fmt"
	"log"
	"time"

	"redditrequest-bot/embeds"
	"redditrequest-bot/models"
)

// UpdatePinnedThreads runs one pin-update tick: every pinned thread gets a
// freshly classified embed posted into it, and threads past the age limit
// are archived and forgotten. Row failures are isolated so one vanished
// thread never stalls the rest.
func UpdatePinnedThreads(ctx context.Context, d Deps) error {
	log.Println("Updating pinned submissions...")

	pinned, err := d.Store.AllPinnedThreads()
	if err != nil {
		return fmt.Errorf("failed to load pinned threads: %w", err)
	}
	log.Printf("Found %d pinned submissions to update", len(pinned))

	for _, thread := range pinned {
		if err := updatePinnedThread(ctx, d, thread); err != nil {
			log.Printf("Failed to update pinned thread %s: %v", thread.ThreadID, err)
		}
	}

	return nil
}

func updatePinnedThread(ctx context.Context, d Deps, thread models.PinnedThread) error {
	sub, err := d.Source.Submission(ctx, thread.SubmissionID)
	if err != nil {
		return err
	}

	subredditName := embeds.SubredditName(sub.URL)
	view, err := BuildView(ctx, d, sub)
	if err != nil {
		return err
	}

	// Update posts carry no action buttons.
	embed := embeds.Submission(view)
	if err := d.Messenger.SendThreadMessage(thread.ThreadID, embeds.UpdateHeader(subredditName), embed); err != nil {
		return err
	}

	age := int(time.Since(thread.CreatedAt).Hours() / 24)
	log.Printf("Thread %s is now %d days old", thread.ThreadID, age)
	if age <= d.PinUpdateLimitDays {
		return nil
	}

	// Age limit reached: say goodbye, lock the thread, drop the row.
	notice := fmt.Sprintf("This thread has reached an age of *%d days*, it will now be archived", d.PinUpdateLimitDays)
	if err := d.Messenger.SendThreadMessage(thread.ThreadID, notice, nil); err != nil {
		return err
	}
	if err := d.Messenger.LockAndArchive(thread.ThreadID); err != nil {
		return err
	}
	if err := d.Store.DeletePinnedThread(thread.ThreadID); err != nil {
		return err
	}
	log.Printf("Archived pinned thread %s", thread.ThreadID)
	return nil
}
