package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func adminComment(body string) Comment {
	return Comment{Body: body, AuthorFlairText: "Reddit Admin"}
}

func TestClassifyRules(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Status
	}{
		{"follow up", "Please reach out by directly messaging the mod team first.", StatusFollowUp},
		{"manual review", "This request requires manual review by our team.", StatusManualReview},
		{"granted", "Your request has been granted.", StatusGranted},
		{"denied transfer", "Subreddits with this status cannot be transferred.", StatusDenied},
		{"denied eligibility", "You aren't eligible for request at this time.", StatusDenied},
		{"denied approval", "We have decided not to approve this request.", StatusDenied},
		{"denied active mods", "The mods are still active in this community.", StatusDenied},
		{"denied minimum", "Your account does not meet the minimum requirements.", StatusDenied},
		{"unrecognized admin reply", "We are looking into it.", StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify([]Comment{adminComment(tt.body)}, 100, 5)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyRulesAreCaseInsensitive(t *testing.T) {
	got := Classify([]Comment{adminComment("YOUR REQUEST HAS BEEN GRANTED.")}, 100, 5)
	assert.Equal(t, StatusGranted, got)
}

func TestClassifyIgnoresUnflairedComments(t *testing.T) {
	comments := []Comment{
		{Body: "has been granted", AuthorFlairText: ""},
		{Body: "has been granted", AuthorFlairText: "helpful redditor"},
	}
	assert.Equal(t, StatusNotAssessed, Classify(comments, 100, 5))
}

func TestClassifyFirstAdminCommentWins(t *testing.T) {
	comments := []Comment{
		{Body: "congrats!", AuthorFlairText: ""},
		adminComment("Your request has been granted."),
		adminComment("This requires manual review."),
	}
	assert.Equal(t, StatusGranted, Classify(comments, 100, 5))
}

func TestClassifyDescendsIntoReplies(t *testing.T) {
	comments := []Comment{
		{
			Body:            "bump",
			AuthorFlairText: "",
			Replies: []Comment{
				adminComment("This subreddit cannot be transferred."),
			},
		},
	}
	assert.Equal(t, StatusDenied, Classify(comments, 100, 5))
}

func TestClassifyRespectsDepthLimit(t *testing.T) {
	comments := []Comment{
		{
			Body: "level one",
			Replies: []Comment{
				{
					Body:    "level two",
					Replies: []Comment{adminComment("has been granted")},
				},
			},
		},
	}
	assert.Equal(t, StatusNotAssessed, Classify(comments, 100, 2))
	assert.Equal(t, StatusGranted, Classify(comments, 100, 3))
}

func TestClassifyRespectsCommentLimit(t *testing.T) {
	comments := make([]Comment, 0, 11)
	for i := 0; i < 10; i++ {
		comments = append(comments, Comment{Body: "me too"})
	}
	comments = append(comments, adminComment("has been granted"))

	assert.Equal(t, StatusNotAssessed, Classify(comments, 10, 5))
	assert.Equal(t, StatusGranted, Classify(comments, 11, 5))
}

func TestClassifyEmptyTree(t *testing.T) {
	assert.Equal(t, StatusNotAssessed, Classify(nil, 100, 5))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "granted", StatusGranted.String())
	assert.Equal(t, "manual review", StatusManualReview.String())
	assert.Equal(t, "follow up", StatusFollowUp.String())
	assert.Equal(t, "denied", StatusDenied.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "not assessed", StatusNotAssessed.String())
}
