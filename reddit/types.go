package reddit

import (
	"encoding/json"
	"fmt"

	"redditrequest-bot/classify"
)

// Submission is a single post on the monitored subreddit.
type Submission struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Permalink  string  `json:"permalink"`
	Author     string  `json:"author"`
	SelfText   string  `json:"selftext"`
	CreatedUTC float64 `json:"created_utc"`
	NSFW       bool    `json:"over_18"`
}

// Redditor is a submission author.
type Redditor struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	IconImg    string  `json:"icon_img"`
	CreatedUTC float64 `json:"created_utc"`
	Suspended  bool    `json:"is_suspended"`
}

// Subreddit is the metadata of a requested subreddit.
type Subreddit struct {
	DisplayName       string  `json:"display_name"`
	Type              string  `json:"subreddit_type"`
	Subscribers       int     `json:"subscribers"`
	Over18            bool    `json:"over18"`
	PublicDescription string  `json:"public_description"`
	Description       string  `json:"description"`
	IconImg           string  `json:"icon_img"`
	CreatedUTC        float64 `json:"created_utc"`
}

// APIError is a non-2xx response from the reddit API.
type APIError struct {
	StatusCode int
	Path       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("reddit API error %d on %s", e.StatusCode, e.Path)
}

// thing is the reddit API's typed wrapper around every payload.
type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// listing is the envelope around paginated children.
type listing struct {
	Data struct {
		Children []thing `json:"children"`
	} `json:"data"`
}

// commentData mirrors one comment node. Replies is either a nested listing
// or the empty string, so it stays raw until parsed.
type commentData struct {
	Body            string          `json:"body"`
	AuthorFlairText string          `json:"author_flair_text"`
	Replies         json.RawMessage `json:"replies"`
}

// parseCommentTree converts a comment listing into classifier comments,
// recursing through reply listings. Placeholder "more" nodes are skipped.
func parseCommentTree(l listing) []classify.Comment {
	var comments []classify.Comment
	for _, child := range l.Data.Children {
		if child.Kind != "t1" {
			continue
		}
		var data commentData
		if err := json.Unmarshal(child.Data, &data); err != nil {
			continue
		}
		comment := classify.Comment{
			Body:            data.Body,
			AuthorFlairText: data.AuthorFlairText,
		}
		if len(data.Replies) > 0 && data.Replies[0] == '{' {
			var replies listing
			if err := json.Unmarshal(data.Replies, &replies); err == nil {
				comment.Replies = parseCommentTree(replies)
			}
		}
		comments = append(comments, comment)
	}
	return comments
}
