// Package github is a small REST client for the parts of the GitHub issues
// API the scheduler reads and writes.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// DefaultBaseURL is the public GitHub API endpoint
const DefaultBaseURL = "https://api.github.com"

// Options configures a Client
type Options struct {
	BaseURL string
	Token   string
	Owner   string
	Repo    string
	PerPage int
	State   string // issue state filter: open, closed or all
	Timeout time.Duration
}

// Client talks to one repository
type Client struct {
	baseURL    string
	owner      string
	repo       string
	perPage    int
	state      string
	httpClient *http.Client
}

// NewClient creates a client. A non-empty token is sent as a bearer token
// on every request.
func NewClient(ctx context.Context, opts Options) *Client {
	httpClient := &http.Client{}
	if opts.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(ctx, src)
	}
	if opts.Timeout > 0 {
		httpClient.Timeout = opts.Timeout
	} else {
		httpClient.Timeout = 30 * time.Second
	}

	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	perPage := opts.PerPage
	if perPage <= 0 || perPage > 100 {
		perPage = 100
	}
	state := opts.State
	if state == "" {
		state = "all"
	}

	return &Client{
		baseURL:    base,
		owner:      opts.Owner,
		repo:       opts.Repo,
		perPage:    perPage,
		state:      state,
		httpClient: httpClient,
	}
}

// Repo returns "owner/repo"
func (c *Client) Repo() string {
	return c.owner + "/" + c.repo
}

// APIError is a non-2xx response from the API
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, e.Message)
}

func (c *Client) repoURL(path string, query url.Values) string {
	u := fmt.Sprintf("%s/repos/%s/%s/%s", c.baseURL, url.PathEscape(c.owner), url.PathEscape(c.repo), path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, rawURL string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr struct {
			Message string `json:"message"`
		}
		msg := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return nil, &APIError{Method: method, URL: rawURL, StatusCode: resp.StatusCode, Message: msg}
	}

	return resp, nil
}

// getPage fetches one page and its rel="next" link
func getPage[T any](ctx context.Context, c *Client, pageURL string) (Page[T], error) {
	resp, err := c.do(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return Page[T]{}, err
	}
	defer resp.Body.Close()

	var items []T
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return Page[T]{}, fmt.Errorf("failed to decode %s: %w", pageURL, err)
	}

	return Page[T]{Items: items, Next: NextLink(resp.Header.Get("Link"))}, nil
}

// firstOr returns cursor when set, otherwise the first page URL
func firstOr(cursor, first string) string {
	if cursor != "" {
		return cursor
	}
	return first
}

// IssuesPage fetches the issues page at cursor, or the first page when
// cursor is empty
func (c *Client) IssuesPage(ctx context.Context, cursor string) (Page[Issue], error) {
	first := c.repoURL("issues", url.Values{
		"state":    {c.state},
		"per_page": {strconv.Itoa(c.perPage)},
	})
	return getPage[Issue](ctx, c, firstOr(cursor, first))
}

// LabelsPage fetches the labels page at cursor
func (c *Client) LabelsPage(ctx context.Context, cursor string) (Page[Label], error) {
	first := c.repoURL("labels", url.Values{
		"per_page": {strconv.Itoa(c.perPage)},
	})
	return getPage[Label](ctx, c, firstOr(cursor, first))
}

// MilestonesPage fetches the milestones page at cursor
func (c *Client) MilestonesPage(ctx context.Context, cursor string) (Page[Milestone], error) {
	first := c.repoURL("milestones", url.Values{
		"state":    {"all"},
		"per_page": {strconv.Itoa(c.perPage)},
	})
	return getPage[Milestone](ctx, c, firstOr(cursor, first))
}

// UpdateIssueBody replaces the body of issue number
func (c *Client) UpdateIssueBody(ctx context.Context, number int, body string) error {
	u := c.repoURL("issues/"+strconv.Itoa(number), nil)
	resp, err := c.do(ctx, http.MethodPatch, u, map[string]string{"body": body})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
