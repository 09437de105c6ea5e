// Package embeds renders classification results into Discord display
// payloads. It is a pure mapping from fetched state to embeds and buttons;
// nothing here talks to the network.
package embeds

import (
	"fmt"
	"strings"
	"time"

	"redditrequest-bot/classify"
	"redditrequest-bot/reddit"

	"github.com/bwmarrin/discordgo"
)

// Version is shown in the notification footer.
const Version = "1.0.0"

const fallbackAuthorIcon = "https://www.redditstatic.com/desktop2x/img/snoomoji/snoo_thoughtful.png"

// Embed colors per submission status.
const (
	colorGranted      = 0x2ecc71
	colorManualReview = 0xf1c40f
	colorFollowUp     = 0xc27c0e
	colorDenied       = 0xe74c3c
	colorError        = 0x992d22
	colorNotAssessed  = 0x979c9f
)

// View is everything a notification embed is rendered from. Subreddit,
// Moderators and Author may be missing when the respective fetch failed or
// the subreddit is not reachable.
type View struct {
	Submission *reddit.Submission
	Status     classify.Status
	Visibility classify.Visibility
	Subreddit  *reddit.Subreddit
	Moderators []string
	Author     *reddit.Redditor
	AuthorName string
}

// StatusColor maps a submission status to its embed color.
func StatusColor(status classify.Status) int {
	switch status {
	case classify.StatusGranted:
		return colorGranted
	case classify.StatusManualReview:
		return colorManualReview
	case classify.StatusFollowUp:
		return colorFollowUp
	case classify.StatusDenied:
		return colorDenied
	case classify.StatusError:
		return colorError
	default:
		return colorNotAssessed
	}
}

// FormatStatus renders a submission status with its marker emoji.
func FormatStatus(status classify.Status) string {
	switch status {
	case classify.StatusGranted:
		return ":white_check_mark: Granted"
	case classify.StatusManualReview:
		return ":pencil: Manual review"
	case classify.StatusFollowUp:
		return ":pencil: Follow up"
	case classify.StatusDenied:
		return ":x: Denied"
	case classify.StatusNotAssessed:
		return ":exclamation: Not assessed"
	default:
		return ":interrobang: Error"
	}
}

// FormatVisibility renders a subreddit visibility with its marker emoji.
func FormatVisibility(v classify.Visibility) string {
	switch v {
	case classify.VisibilityPublic:
		return ":green_circle: Public"
	case classify.VisibilityRestricted:
		return ":orange_circle: Restricted"
	case classify.VisibilityBanned:
		return ":red_circle: Banned"
	case classify.VisibilityPrivate:
		return ":red_square: Private"
	default:
		return ":interrobang: Error"
	}
}

// SubredditName extracts the requested subreddit from a submission URL.
// Request URLs look like https://www.reddit.com/r/<name>/... so the name is
// the fourth path segment.
func SubredditName(url string) string {
	segments := strings.Split(url, "/")
	if len(segments) < 5 {
		return ""
	}
	return strings.SplitN(segments[4], "?", 2)[0]
}

// Submission builds the notification embed for a classified submission.
func Submission(v View) *discordgo.MessageEmbed {
	subredditName := SubredditName(v.Submission.URL)

	authorName := v.AuthorName
	if authorName == "" {
		authorName = "[deleted]"
	}
	authorIcon := fallbackAuthorIcon
	authorCreated := "-"
	if v.Author != nil {
		if v.Author.IconImg != "" {
			authorIcon = v.Author.IconImg
		}
		authorCreated = formatDate(v.Author.CreatedUTC)
	}

	subredditCreated := "-"
	subredditIcon := ""
	subredditSubscribers := 0
	subredditNSFW := false
	subredditDescription := "-"
	if v.Subreddit != nil {
		subredditCreated = formatDate(v.Subreddit.CreatedUTC)
		subredditIcon = v.Subreddit.IconImg
		subredditSubscribers = v.Subreddit.Subscribers
		subredditNSFW = v.Subreddit.Over18
		subredditDescription = description(v.Subreddit)
	}

	nsfw := ":x:"
	if v.Submission.NSFW || subredditNSFW {
		nsfw = "🔞"
	}

	moderators := "-"
	if len(v.Moderators) > 0 {
		prefixed := make([]string, len(v.Moderators))
		for i, name := range v.Moderators {
			prefixed[i] = "u/" + name
		}
		moderators = strings.Join(prefixed, ", ")
	}

	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("r/%s", subredditName),
		URL:   fmt.Sprintf("https://reddit.com/r/redditrequest/comments/%s/", v.Submission.ID),
		Color: StatusColor(v.Status),
		Author: &discordgo.MessageEmbedAuthor{
			Name:    fmt.Sprintf("u/%s", authorName),
			IconURL: authorIcon,
			URL:     fmt.Sprintf("https://reddit.com/u/%s", authorName),
		},
		Description: fmt.Sprintf("**Title:**\n> %s\n\n**Description:**\n> %s\n​",
			v.Submission.Title, strings.ReplaceAll(subredditDescription, "\n", "\n> ")),
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: subredditIcon},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Subreddit", Value: FormatVisibility(v.Visibility), Inline: true},
			{Name: "Submission", Value: FormatStatus(v.Status), Inline: true},
			{Name: "​", Value: "​"},
			{Name: "NSFW", Value: nsfw, Inline: true},
			{Name: "Subscribers", Value: fmt.Sprintf("%d", subredditSubscribers), Inline: true},
			{Name: "Moderators", Value: fmt.Sprintf("%d", len(v.Moderators)), Inline: true},
			{Name: "Moderators", Value: moderators},
			{Name: "​", Value: "​"},
			{Name: "Subreddit", Value: subredditCreated, Inline: true},
			{Name: "Redditor", Value: authorCreated, Inline: true},
		},
		Timestamp: time.Unix(int64(v.Submission.CreatedUTC), 0).UTC().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text:    fmt.Sprintf("Brought to you by u/AstralJaeger • V%s", Version),
			IconURL: "https://styles.redditmedia.com/t5_pmihh/styles/profileIcon_95r9jqyfdeu71.png",
		},
	}
}

// description picks the public description, falling back to the first line
// of the full sidebar text.
func description(sub *reddit.Subreddit) string {
	if sub.PublicDescription != "" {
		return sub.PublicDescription
	}
	if sub.Description == "" {
		return "-"
	}
	return strings.SplitN(sub.Description, "\n", 2)[0]
}

func formatDate(createdUTC float64) string {
	if createdUTC == 0 {
		return "-"
	}
	return time.Unix(int64(createdUTC), 0).UTC().Format("2006-01-02")
}
