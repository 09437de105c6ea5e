package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"

	"redditrequest-bot/bot"
	"redditrequest-bot/database"
	"redditrequest-bot/embeds"
	"redditrequest-bot/scanner"
	"redditrequest-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// ButtonDispatcher handles button presses on notification messages. Every
// path acknowledges with a deferred ephemeral reply before doing any slow
// I/O and always completes that reply.
func ButtonDispatcher(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	log.Printf("Button %s pressed", customID)

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		log.Printf("Failed to defer interaction reply: %v", err)
		return
	}

	switch customID {
	case embeds.ButtonUpdatePost:
		handleUpdatePost(b, s, i)
	case embeds.ButtonPinPost:
		handlePinPost(b, s, i)
	case embeds.ButtonDetailedReport, embeds.ButtonReadPost:
		editReply(s, i, "This feature is not yet available")
	default:
		editReply(s, i, "There was an error executing this command!")
	}
}

// handleUpdatePost re-renders a submission and edits the notification in
// every channel it was posted to.
func handleUpdatePost(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	submissionID, err := b.Store.SubmissionIDFor(i.Message.ID, i.ChannelID)
	if err != nil {
		log.Printf("Failed to resolve submission for message %s: %v", i.Message.ID, err)
		editReply(s, i, "There was an error executing this command!")
		return
	}
	if submissionID == "" {
		editReply(s, i, "This submission does not exist")
		return
	}

	deps := b.ScannerDeps()
	sub, err := deps.Source.Submission(ctx, submissionID)
	if err != nil {
		log.Printf("Failed to fetch submission %s: %v", submissionID, err)
		editReply(s, i, "There was an error executing this command!")
		return
	}

	view, err := scanner.BuildView(ctx, deps, sub)
	if err != nil {
		log.Printf("Failed to build view for submission %s: %v", submissionID, err)
		editReply(s, i, "There was an error executing this command!")
		return
	}

	log.Printf("Updating submission post for %s", embeds.SubredditName(sub.URL))

	channels, err := b.Store.ChannelsFor(submissionID)
	if err != nil {
		log.Printf("Failed to get channels for submission %s: %v", submissionID, err)
		editReply(s, i, "There was an error executing this command!")
		return
	}

	updated := []*discordgo.MessageEmbed{embeds.Submission(view)}
	for _, ref := range channels {
		_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel: ref.ChannelID,
			ID:      ref.MessageID,
			Embeds:  &updated,
		})
		if err != nil {
			// The message or channel might have been deleted upstream.
			utils.Warn("handlers", "updatePost",
				fmt.Sprintf("Couldn't update message %s in channel %s: %v", ref.MessageID, ref.ChannelID, err))
		}
	}

	editReply(s, i, "Done. Check out the result at the original post")
}

// handlePinPost starts a thread from a notification message and registers
// it for periodic updates, respecting the per-user pin limit.
func handlePinPost(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)

	submissionID, err := b.Store.SubmissionIDFor(i.Message.ID, i.ChannelID)
	if err != nil {
		log.Printf("Failed to resolve submission for message %s: %v", i.Message.ID, err)
		editReply(s, i, "There was an error executing this command!")
		return
	}
	if submissionID == "" {
		editReply(s, i, "This submission does not exist")
		return
	}

	auth := utils.NewAuth(b.Settings.Bot.ExemptUsers)
	allowed, pinnedCount, err := canPin(b.Store, auth, user.ID, b.Settings.Bot.PinLimit)
	if err != nil {
		log.Printf("Failed to count pins for user %s: %v", user.ID, err)
		editReply(s, i, "There was an error executing this command!")
		return
	}
	if !allowed {
		editReply(s, i, fmt.Sprintf("<@%s>, you reached your pin limit of **%d**/**%d** 📌,\nplease wait for some to expire or close the thread!",
			user.ID, pinnedCount, b.Settings.Bot.PinLimit))
		return
	}

	subredditName, err := b.Store.SubredditFor(submissionID)
	if err != nil {
		log.Printf("Failed to get subreddit for submission %s: %v", submissionID, err)
		editReply(s, i, "There was an error executing this command!")
		return
	}

	thread, err := s.MessageThreadStartComplex(i.ChannelID, i.Message.ID, &discordgo.ThreadStart{
		Name:                strings.ToLower(subredditName),
		AutoArchiveDuration: 1440,
	})
	if err != nil {
		log.Printf("Failed to start thread for message %s: %v", i.Message.ID, err)
		editReply(s, i, "There was an error executing this command!")
		return
	}

	if err := b.Store.PutPinnedThread(i.Message.ID, thread.ID, i.GuildID, user.ID, submissionID); err != nil {
		log.Printf("Failed to persist pinned thread %s: %v", thread.ID, err)
		editReply(s, i, "There was an error executing this command!")
		return
	}

	if err := s.ThreadMemberAdd(thread.ID, user.ID); err != nil {
		log.Printf("Failed to add user %s to thread %s: %v", user.ID, thread.ID, err)
	}

	welcome := fmt.Sprintf("Please use this thread to discuss the submission.\nIt will get updated regularly and kept alive for **%d days**.\nHave fun!",
		b.Settings.Bot.PinUpdateLimitDays)
	if _, err := s.ChannelMessageSend(thread.ID, welcome); err != nil {
		log.Printf("Failed to send welcome message to thread %s: %v", thread.ID, err)
	}

	editReply(s, i, "Done.")
}

// canPin checks a user's active pins against the limit, honoring the
// exemption list. A denied user gets no thread and no PinnedThread row.
func canPin(store database.Store, auth *utils.Auth, userID string, limit int) (bool, int, error) {
	count, err := store.PinnedCountFor(userID)
	if err != nil {
		return false, 0, err
	}
	if count >= limit && !auth.IsExempt(userID) {
		return false, count, nil
	}
	return true, count, nil
}

// editReply completes a deferred interaction reply.
func editReply(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
	if err != nil {
		log.Printf("Failed to edit interaction reply: %v", err)
	}
}
