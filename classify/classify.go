package classify

import "strings"

// Status is the moderation status of a request submission, derived from the
// admin replies in its comment thread.
type Status int

const (
	StatusNotAssessed Status = iota
	StatusFollowUp
	StatusManualReview
	StatusGranted
	StatusDenied
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusFollowUp:
		return "follow up"
	case StatusManualReview:
		return "manual review"
	case StatusGranted:
		return "granted"
	case StatusDenied:
		return "denied"
	case StatusError:
		return "error"
	default:
		return "not assessed"
	}
}

// Comment is the minimal comment shape the classifier needs.
type Comment struct {
	Body            string
	AuthorFlairText string
	Replies         []Comment
}

// adminFlairMarker gates which comments count as authoritative.
const adminFlairMarker = "admin"

// deniedPhrases are the admin reply fragments that mean a request was denied.
var deniedPhrases = []string{
	"cannot be transferred",
	"aren't eligible for request",
	"not to approve",
	"mods are still active",
	"not meet the minimum",
}

// Classify derives a submission status from its comment tree. It scans at
// most limit comments, descending no deeper than depth levels, and rules on
// the first comment whose author flair carries the admin marker. Comments
// without such a flair are skipped; if the scanned window contains none, the
// submission is not assessed.
func Classify(comments []Comment, limit, depth int) Status {
	scanned := 0
	status, found := walk(comments, 1, depth, limit, &scanned)
	if !found {
		return StatusNotAssessed
	}
	return status
}

func walk(comments []Comment, level, depth, limit int, scanned *int) (Status, bool) {
	if level > depth {
		return StatusNotAssessed, false
	}
	for _, comment := range comments {
		if *scanned >= limit {
			return StatusNotAssessed, false
		}
		*scanned++

		flair := comment.AuthorFlairText
		if flair != "" && strings.Contains(strings.ToLower(flair), adminFlairMarker) {
			return rule(comment.Body), true
		}

		if status, found := walk(comment.Replies, level+1, depth, limit, scanned); found {
			return status, true
		}
	}
	return StatusNotAssessed, false
}

// rule maps an admin comment body to a status. First match wins.
func rule(body string) Status {
	body = strings.ToLower(body)
	switch {
	case strings.Contains(body, "directly messaging the mod team"):
		return StatusFollowUp
	case strings.Contains(body, "manual review"):
		return StatusManualReview
	case strings.Contains(body, "has been granted"):
		return StatusGranted
	}
	for _, phrase := range deniedPhrases {
		if strings.Contains(body, phrase) {
			return StatusDenied
		}
	}
	// An admin replied but the reply matches no known ruling.
	return StatusError
}
