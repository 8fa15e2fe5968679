package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/story-slammer/agent/contract"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultPageSize      = 200
	maxPages             = 50
	maxResponseSizeBytes = 16 << 20
	graphFields          = "parent,summary,status,assignee,priority,description"
)

var searchFields = []string{"summary", "status", "assignee", "priority", "description", "parent"}

type Config struct {
	BaseURL  string        `envconfig:"BASE_URL" split_words:"true" required:"true"`
	Username string        `envconfig:"ATLASSIAN_USERNAME" required:"true"`
	APIKey   string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Timeout  time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	PageSize int           `envconfig:"PAGE_SIZE" split_words:"true" default:"200"`
}

// ClientOption customizes Client.
type ClientOption func(*Client)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// Client reads issues from the Jira REST v2 API.
type Client struct {
	baseURL    string
	username   string
	apiKey     string
	pageSize   int
	httpClient *http.Client
}

var _ contractx.IssueLookup = (*Client)(nil)

func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: jira base url is required", contractx.ErrValidation)
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid jira base url: %v", contractx.ErrValidation, err)
	}

	username := strings.TrimSpace(cfg.Username)
	apiKey := strings.TrimSpace(cfg.APIKey)
	if username == "" || apiKey == "" {
		return nil, fmt.Errorf("%w: jira username and api key are required", contractx.ErrValidation)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	client := &Client{
		baseURL:  baseURL,
		username: username,
		apiKey:   apiKey,
		pageSize: pageSize,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

type rawIssue struct {
	Key    string    `json:"key"`
	Fields rawFields `json:"fields"`
}

type rawFields struct {
	Parent      *rawParent      `json:"parent"`
	Summary     json.RawMessage `json:"summary"`
	Status      *rawNamed       `json:"status"`
	Assignee    *rawUser        `json:"assignee"`
	Priority    *rawNamed       `json:"priority"`
	Description json.RawMessage `json:"description"`
}

type rawParent struct {
	Key string `json:"key"`
}

type rawNamed struct {
	Name string `json:"name"`
}

type rawUser struct {
	DisplayName string `json:"displayName"`
}

type searchRequest struct {
	JQL        string   `json:"jql"`
	StartAt    int      `json:"startAt"`
	MaxResults int      `json:"maxResults"`
	Fields     []string `json:"fields"`
}

type searchResponse struct {
	StartAt    int        `json:"startAt"`
	MaxResults int        `json:"maxResults"`
	Total      int        `json:"total"`
	Issues     []rawIssue `json:"issues"`
}

// FetchIssueGraph returns the primary issue, its parent and the parent's
// children in search order. Any failure aborts the whole batch.
func (c *Client) FetchIssueGraph(ctx context.Context, primaryKey string) (Document, error) {
	primaryKey = NormalizeKey(primaryKey)
	if primaryKey == "" {
		return nil, fmt.Errorf("%w: issue key is empty", contractx.ErrValidation)
	}

	raw, err := c.do(ctx, http.MethodGet, c.issueURL(primaryKey)+"?fields="+graphFields, nil)
	if err != nil {
		return nil, err
	}

	var primary rawIssue
	if err := json.Unmarshal(raw, &primary); err != nil {
		return nil, fmt.Errorf("%w: %w: decode issue %s: %v", contractx.ErrTrackerUnavailable, contractx.ErrMalformedIssue, primaryKey, err)
	}

	parentKey := primaryKey
	if primary.Fields.Parent != nil {
		if k := strings.TrimSpace(primary.Fields.Parent.Key); k != "" {
			parentKey = k
		}
	}

	issues, err := c.searchAll(ctx, fmt.Sprintf("issue = %s OR parent = %s", parentKey, parentKey))
	if err != nil {
		return nil, err
	}

	doc := make(Document, 0, len(issues))
	seen := make(map[string]struct{}, len(issues))
	for _, issue := range issues {
		if _, dup := seen[issue.Key]; dup {
			continue
		}
		seen[issue.Key] = struct{}{}

		rec, err := buildRecord(issue, issue.Key, sanitizeRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", contractx.ErrTrackerUnavailable, err)
		}
		doc = append(doc, rec)
	}

	Classify(doc, primaryKey, parentKey)

	log.Debug().
		Str("primary_key", primaryKey).
		Str("parent_key", parentKey).
		Int("issues", len(doc)).
		Msg("tracker issue graph fetched")

	return doc, nil
}

// FetchSingleIssue renders one issue as a fetchedIssue block. It never fails:
// any error yields FetchFailedBlock so a conversation turn can continue.
func (c *Client) FetchSingleIssue(ctx context.Context, key string) string {
	key = strings.TrimSpace(key)
	rec, err := c.fetchSingle(ctx, key)
	if err != nil {
		log.Warn().Err(fmt.Errorf("%w: %w", contractx.ErrToolLookupFailed, err)).Str("issue_key", key).Msg("tracker lookup failed")
		return FetchFailedBlock
	}
	return rec.Render()
}

func (c *Client) fetchSingle(ctx context.Context, key string) (IssueRecord, error) {
	if key == "" {
		return IssueRecord{}, fmt.Errorf("%w: issue key is empty", contractx.ErrValidation)
	}

	raw, err := c.do(ctx, http.MethodGet, c.issueURL(key), nil)
	if err != nil {
		return IssueRecord{}, err
	}

	var issue rawIssue
	if err := json.Unmarshal(raw, &issue); err != nil {
		return IssueRecord{}, fmt.Errorf("%w: decode issue %s: %v", contractx.ErrMalformedIssue, key, err)
	}

	rec, err := buildRecord(issue, key, nil)
	if err != nil {
		return IssueRecord{}, err
	}
	rec.Role = RoleFetched
	return rec, nil
}

func (c *Client) searchAll(ctx context.Context, jql string) ([]rawIssue, error) {
	var all []rawIssue
	startAt := 0

	for page := 0; page < maxPages; page++ {
		raw, err := c.do(ctx, http.MethodPost, c.baseURL+"/rest/api/2/search", searchRequest{
			JQL:        jql,
			StartAt:    startAt,
			MaxResults: c.pageSize,
			Fields:     searchFields,
		})
		if err != nil {
			return nil, err
		}

		var resp searchResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("%w: %w: decode search page at %d: %v", contractx.ErrTrackerUnavailable, contractx.ErrMalformedIssue, startAt, err)
		}

		all = append(all, resp.Issues...)
		startAt += len(resp.Issues)
		if len(resp.Issues) == 0 || startAt >= resp.Total {
			return all, nil
		}
	}

	log.Warn().Str("jql", jql).Int("issues", len(all)).Msg("tracker search stopped at page limit")
	return all, nil
}

func (c *Client) issueURL(key string) string {
	return c.baseURL + "/rest/api/2/issue/" + url.PathEscape(key)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	if c == nil || c.httpClient == nil {
		return nil, fmt.Errorf("%w: nil tracker client", contractx.ErrTrackerUnavailable)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal tracker request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", contractx.ErrTrackerUnavailable, err)
	}
	req.SetBasicAuth(c.username, c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", contractx.ErrTrackerUnavailable, method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", contractx.ErrTrackerUnavailable, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s %s: status=%d body=%s", contractx.ErrTrackerUnavailable, method, req.URL.Path, resp.StatusCode, truncate(raw, 512))
	}
	return raw, nil
}

// buildRecord converts a raw issue. clean, when set, rewrites free-text
// fields while they are still serialized; single lookups pass nil and keep
// the tracker text as is.
func buildRecord(issue rawIssue, key string, clean func([]byte) []byte) (IssueRecord, error) {
	f := issue.Fields
	if clean == nil {
		clean = func(raw []byte) []byte { return raw }
	}

	summary, ok, err := decodeOptionalString(clean(f.Summary))
	if err != nil || !ok {
		return IssueRecord{}, fmt.Errorf("%w: issue %s: summary missing or invalid", contractx.ErrMalformedIssue, key)
	}
	if f.Status == nil {
		return IssueRecord{}, fmt.Errorf("%w: issue %s: status missing", contractx.ErrMalformedIssue, key)
	}
	if f.Priority == nil {
		return IssueRecord{}, fmt.Errorf("%w: issue %s: priority missing", contractx.ErrMalformedIssue, key)
	}

	assignee := UnassignedName
	if f.Assignee != nil && strings.TrimSpace(f.Assignee.DisplayName) != "" {
		assignee = f.Assignee.DisplayName
	}

	description, ok, err := decodeOptionalString(clean(f.Description))
	if err != nil {
		return IssueRecord{}, fmt.Errorf("%w: issue %s: description invalid", contractx.ErrMalformedIssue, key)
	}
	if !ok {
		description = NoDescriptionText
	}

	return IssueRecord{
		Key:         key,
		Summary:     summary,
		Status:      f.Status.Name,
		Assignee:    assignee,
		Priority:    f.Priority.Name,
		Description: description,
	}, nil
}

// decodeOptionalString reports ok=false for an absent or null value.
func decodeOptionalString(raw json.RawMessage) (string, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false, err
	}
	return s, true, nil
}

func truncate(raw []byte, limit int) string {
	if len(raw) <= limit {
		return string(raw)
	}
	return string(raw[:limit]) + "..."
}
