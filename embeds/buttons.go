package embeds

import (
	"fmt"
	"time"

	"redditrequest-bot/reddit"

	"github.com/bwmarrin/discordgo"
)

// Button custom IDs for the action row of a notification message.
const (
	ButtonDetailedReport = "detailedReport"
	ButtonUpdatePost     = "updatePost"
	ButtonPinPost        = "pinPost"
	ButtonReadPost       = "readPost"
)

// Buttons builds the two action rows attached to a notification: one of
// interaction buttons, one of outbound links.
func Buttons(sub *reddit.Submission, authorName, subredditName string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					CustomID: ButtonDetailedReport,
					Label:    "Detailed Report",
					Style:    discordgo.PrimaryButton,
					Disabled: true,
					Emoji:    &discordgo.ComponentEmoji{Name: "📜"},
				},
				discordgo.Button{
					CustomID: ButtonUpdatePost,
					Label:    "Update Post",
					Style:    discordgo.SecondaryButton,
					Emoji:    &discordgo.ComponentEmoji{Name: "🔁"},
				},
				discordgo.Button{
					CustomID: ButtonPinPost,
					Label:    "Pin Post",
					Style:    discordgo.SecondaryButton,
					Emoji:    &discordgo.ComponentEmoji{Name: "📌"},
				},
				discordgo.Button{
					CustomID: ButtonReadPost,
					Label:    "Read Aloud",
					Style:    discordgo.SecondaryButton,
					Disabled: true,
					Emoji:    &discordgo.ComponentEmoji{Name: "📢"},
				},
			},
		},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label: "Submission",
					Style: discordgo.LinkButton,
					URL:   fmt.Sprintf("https://www.reddit.com/r/redditrequest/comments/%s/", sub.ID),
				},
				discordgo.Button{
					Label: "Redditor",
					Style: discordgo.LinkButton,
					URL:   fmt.Sprintf("https://www.reddit.com/u/%s/", authorName),
				},
				discordgo.Button{
					Label: "Subreddit",
					Style: discordgo.LinkButton,
					URL:   fmt.Sprintf("https://www.reddit.com/r/%s/", subredditName),
				},
				discordgo.Button{
					Label: "RedditMetis",
					Style: discordgo.LinkButton,
					URL:   fmt.Sprintf("https://redditmetis.com/user/%s", authorName),
				},
			},
		},
	}
}

// UpdateHeader is the message body posted above a refreshed embed in a
// pinned thread.
func UpdateHeader(subredditName string) string {
	return fmt.Sprintf("**Update for request r/%s**\n%s",
		subredditName, time.Now().Format("January 2 2006, 15:04:05"))
}
