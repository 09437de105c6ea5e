package classify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Visibility is the reachability of a subreddit as seen by an anonymous
// metadata probe.
type Visibility int

const (
	VisibilityUnknown Visibility = iota
	VisibilityPublic
	VisibilityRestricted
	VisibilityPrivate
	VisibilityBanned
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityRestricted:
		return "restricted"
	case VisibilityPrivate:
		return "private"
	case VisibilityBanned:
		return "banned"
	default:
		return "unknown"
	}
}

const probeBaseURL = "https://www.reddit.com"

// Prober resolves subreddit visibility through the public about endpoint.
// The probe is independent of any authenticated API session.
type Prober struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// NewProber creates a visibility prober. A nil client gets a default with a
// sane timeout.
func NewProber(client *http.Client, userAgent string) *Prober {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Prober{client: client, baseURL: probeBaseURL, userAgent: userAgent}
}

// Visibility probes a subreddit's metadata endpoint. A 403 means the
// subreddit went private, a 404 means it was banned. Network failures map to
// unknown rather than an error so a flaky probe never aborts a scan.
func (p *Prober) Visibility(name string) Visibility {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/r/%s/about.json", p.baseURL, name), nil)
	if err != nil {
		return VisibilityUnknown
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return VisibilityUnknown
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusForbidden:
		return VisibilityPrivate
	case http.StatusNotFound:
		return VisibilityBanned
	}

	var about struct {
		Data struct {
			SubredditType string `json:"subreddit_type"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&about); err != nil {
		return VisibilityUnknown
	}

	switch about.Data.SubredditType {
	case "", "public":
		return VisibilityPublic
	case "restricted":
		return VisibilityRestricted
	default:
		return VisibilityUnknown
	}
}
