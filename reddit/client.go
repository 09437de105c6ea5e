package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"redditrequest-bot/classify"

	"github.com/patrickmn/go-cache"
)

const (
	defaultAPIURL  = "https://oauth.reddit.com"
	defaultAuthURL = "https://www.reddit.com/api/v1/access_token"

	subredditCacheTTL = 10 * time.Minute
)

// ErrRedditorNotFound is returned when an author account was deleted or is
// otherwise unreachable.
var ErrRedditorNotFound = errors.New("redditor not found")

// Credentials holds the script-app credentials for the password grant.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string
}

// Client talks to the reddit API for a single monitored subreddit. It keeps
// the OAuth token fresh and tracks the remaining request budget reported by
// the API so callers can back off before hitting the rate limit.
type Client struct {
	creds     Credentials
	subreddit string

	http    *http.Client
	apiURL  string
	authURL string

	tokenMu     sync.Mutex
	token       string
	tokenExpiry time.Time

	rateMu        sync.Mutex
	rateRemaining float64

	subCache *cache.Cache
}

// NewClient creates a reddit API client for the given subreddit.
func NewClient(creds Credentials, subreddit string) *Client {
	return &Client{
		creds:         creds,
		subreddit:     subreddit,
		http:          &http.Client{Timeout: 30 * time.Second},
		apiURL:        defaultAPIURL,
		authURL:       defaultAuthURL,
		rateRemaining: 600,
		subCache:      cache.New(subredditCacheTTL, subredditCacheTTL),
	}
}

// RateLimitRemaining reports the request budget left in the current window.
func (c *Client) RateLimitRemaining() float64 {
	c.rateMu.Lock()
	defer c.rateMu.Unlock()
	return c.rateRemaining
}

func (c *Client) setRateRemaining(header string) {
	if header == "" {
		return
	}
	remaining, err := strconv.ParseFloat(header, 64)
	if err != nil {
		return
	}
	c.rateMu.Lock()
	c.rateRemaining = remaining
	c.rateMu.Unlock()
}

// ensureToken fetches or refreshes the OAuth token via the password grant.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", c.creds.Username)
	form.Set("password", c.creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.creds.ClientID, c.creds.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.creds.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Path: "/api/v1/access_token"}
	}

	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	c.token = token.AccessToken
	// Renew a minute early so in-flight calls never race the expiry.
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn-60) * time.Second)
	return c.token, nil
}

// call issues an authenticated GET and decodes the JSON response into v.
func (c *Client) call(ctx context.Context, path string, params url.Values, v interface{}) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if params != nil {
		req.URL.RawQuery = params.Encode()
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.creds.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.setRateRemaining(resp.Header.Get("X-Ratelimit-Remaining"))

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Path: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response for %s: %w", path, err)
	}
	return nil
}

// NewSubmissions lists the newest submissions on the monitored subreddit,
// newest first.
func (c *Client) NewSubmissions(ctx context.Context, limit int) ([]Submission, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	var l listing
	if err := c.call(ctx, fmt.Sprintf("/r/%s/new", c.subreddit), params, &l); err != nil {
		return nil, fmt.Errorf("failed to list new submissions: %w", err)
	}

	submissions := make([]Submission, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		var sub Submission
		if err := json.Unmarshal(child.Data, &sub); err != nil {
			continue
		}
		submissions = append(submissions, sub)
	}
	return submissions, nil
}

// Submission fetches a single submission by its identifier.
func (c *Client) Submission(ctx context.Context, id string) (*Submission, error) {
	params := url.Values{}
	params.Set("id", "t3_"+id)

	var l listing
	if err := c.call(ctx, "/api/info", params, &l); err != nil {
		return nil, fmt.Errorf("failed to fetch submission %s: %w", id, err)
	}
	if len(l.Data.Children) == 0 {
		return nil, fmt.Errorf("submission %s not found", id)
	}

	var sub Submission
	if err := json.Unmarshal(l.Data.Children[0].Data, &sub); err != nil {
		return nil, fmt.Errorf("failed to decode submission %s: %w", id, err)
	}
	return &sub, nil
}

// Comments fetches the comment tree of a submission, scanning at most limit
// comments down to the given depth.
func (c *Client) Comments(ctx context.Context, id string, limit, depth int) ([]classify.Comment, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("depth", strconv.Itoa(depth))

	// The comments endpoint returns a pair of listings: the submission
	// itself, then the comment tree.
	var listings []listing
	if err := c.call(ctx, fmt.Sprintf("/comments/%s", id), params, &listings); err != nil {
		return nil, fmt.Errorf("failed to fetch comments for %s: %w", id, err)
	}
	if len(listings) < 2 {
		return nil, nil
	}
	return parseCommentTree(listings[1]), nil
}

// Redditor fetches an author's account. Deleted accounts return
// ErrRedditorNotFound; suspended accounts come back with Suspended set.
func (c *Client) Redditor(ctx context.Context, name string) (*Redditor, error) {
	var t thing
	if err := c.call(ctx, fmt.Sprintf("/user/%s/about", name), nil, &t); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, ErrRedditorNotFound
		}
		return nil, fmt.Errorf("failed to fetch redditor %s: %w", name, err)
	}

	var redditor Redditor
	if err := json.Unmarshal(t.Data, &redditor); err != nil {
		return nil, fmt.Errorf("failed to decode redditor %s: %w", name, err)
	}
	if redditor.Name == "" {
		redditor.Name = name
	}
	return &redditor, nil
}

// Subreddit fetches a subreddit's metadata. Results are cached briefly since
// discovery and pin updates repeatedly look at the same subreddits.
func (c *Client) Subreddit(ctx context.Context, name string) (*Subreddit, error) {
	if cached, ok := c.subCache.Get(name); ok {
		return cached.(*Subreddit), nil
	}

	var t thing
	if err := c.call(ctx, fmt.Sprintf("/r/%s/about", name), nil, &t); err != nil {
		return nil, fmt.Errorf("failed to fetch subreddit %s: %w", name, err)
	}

	var sub Subreddit
	if err := json.Unmarshal(t.Data, &sub); err != nil {
		return nil, fmt.Errorf("failed to decode subreddit %s: %w", name, err)
	}

	c.subCache.Set(name, &sub, cache.DefaultExpiration)
	return &sub, nil
}

// Moderators lists the moderator names of a subreddit.
func (c *Client) Moderators(ctx context.Context, name string) ([]string, error) {
	var userList struct {
		Data struct {
			Children []struct {
				Name string `json:"name"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := c.call(ctx, fmt.Sprintf("/r/%s/about/moderators", name), nil, &userList); err != nil {
		return nil, fmt.Errorf("failed to fetch moderators for %s: %w", name, err)
	}

	names := make([]string, 0, len(userList.Data.Children))
	for _, child := range userList.Data.Children {
		names = append(names, child.Name)
	}
	return names, nil
}
