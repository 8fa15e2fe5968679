package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	contractx "github.com/tanpawarit/story-slammer/agent/contract"
)

type fakeJira struct {
	mu       sync.Mutex
	issues   map[string]string
	search   []string
	pageSize int
	status   int

	searchBodies []searchRequest
	authOK       bool
}

func (f *fakeJira) handler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		user, pass, ok := r.BasicAuth()
		f.authOK = ok && user == "bot@example.com" && pass == "secret"
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept header = %q", r.Header.Get("Accept"))
		}

		if f.status != 0 {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(`{"errorMessages":["boom"]}`))
			return
		}

		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/rest/api/2/issue/"):
			key := strings.TrimPrefix(r.URL.Path, "/rest/api/2/issue/")
			body, ok := f.issues[key]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"errorMessages":["Issue does not exist"]}`))
				return
			}
			_, _ = w.Write([]byte(body))
		case r.Method == http.MethodPost && r.URL.Path == "/rest/api/2/search":
			var req searchRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode search body: %v", err)
			}
			f.searchBodies = append(f.searchBodies, req)

			size := f.pageSize
			if size <= 0 {
				size = len(f.search)
			}
			end := req.StartAt + size
			if end > len(f.search) {
				end = len(f.search)
			}
			page := make([]json.RawMessage, 0, size)
			for _, key := range f.search[req.StartAt:end] {
				page = append(page, json.RawMessage(f.issues[key]))
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"startAt":    req.StartAt,
				"maxResults": size,
				"total":      len(f.search),
				"issues":     page,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL:  srv.URL + "/",
		Username: "bot@example.com",
		APIKey:   "secret",
	}, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func issueJSON(key, parent, summary, status, assignee, priority string, description any) string {
	fields := map[string]any{
		"summary":     summary,
		"status":      map[string]string{"name": status},
		"priority":    map[string]string{"name": priority},
		"description": description,
		"assignee":    nil,
	}
	if assignee != "" {
		fields["assignee"] = map[string]string{"displayName": assignee}
	}
	if parent != "" {
		fields["parent"] = map[string]string{"key": parent}
	}
	raw, _ := json.Marshal(map[string]any{"key": key, "fields": fields})
	return string(raw)
}

func projectFixture() *fakeJira {
	return &fakeJira{
		issues: map[string]string{
			"PROJ-1": issueJSON("PROJ-1", "", "Auth epic", "Open", "Fox Mulder", "Medium", "Everything about auth"),
			"PROJ-5": issueJSON("PROJ-5", "PROJ-1", "Add login", "In Progress", "", "High", nil),
			"PROJ-6": issueJSON("PROJ-6", "PROJ-1", "Drop -legacy- form", "Done", "Dana Scully", "Low", "{color:#ff0000}urgent{/color}"),
		},
		search: []string{"PROJ-1", "PROJ-5", "PROJ-6"},
	}
}

func TestFetchIssueGraphClassifiesRoles(t *testing.T) {
	t.Parallel()

	fake := projectFixture()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	doc, err := newTestClient(t, srv).FetchIssueGraph(context.Background(), " proj-5 ")
	if err != nil {
		t.Fatalf("FetchIssueGraph() error = %v", err)
	}

	want := Document{
		{Key: "PROJ-1", Summary: "Auth epic", Status: "Open", Assignee: "Fox Mulder", Priority: "Medium", Description: "Everything about auth", Role: RoleParent},
		{Key: "PROJ-5", Summary: "Add login", Status: "In Progress", Assignee: UnassignedName, Priority: "High", Description: NoDescriptionText, Role: RolePrimary},
		{Key: "PROJ-6", Summary: "Drop <crossedout>legacy</crossedout> form", Status: "Done", Assignee: "Dana Scully", Priority: "Low", Description: "<highlighted>urgent</highlighted>", Role: RoleRelated},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}

	if !fake.authOK {
		t.Fatal("expected basic auth credentials on every request")
	}
	if len(fake.searchBodies) != 1 {
		t.Fatalf("expected one search call, got %d", len(fake.searchBodies))
	}
	if got := fake.searchBodies[0].JQL; got != "issue = PROJ-1 OR parent = PROJ-1" {
		t.Fatalf("jql = %q", got)
	}
	if fake.searchBodies[0].MaxResults != defaultPageSize {
		t.Fatalf("maxResults = %d", fake.searchBodies[0].MaxResults)
	}

	rendered := doc.String()
	if !strings.HasPrefix(rendered, "<parentIssue>\n    <key>PROJ-1</key>") {
		t.Fatalf("unexpected rendering start: %q", rendered[:40])
	}
}

func TestFetchIssueGraphRootIssueIsPrimary(t *testing.T) {
	t.Parallel()

	fake := projectFixture()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	doc, err := newTestClient(t, srv).FetchIssueGraph(context.Background(), "PROJ-1")
	if err != nil {
		t.Fatalf("FetchIssueGraph() error = %v", err)
	}
	if doc[0].Role != RolePrimary {
		t.Fatalf("root role = %s, want primary", doc[0].Role)
	}
	for _, rec := range doc[1:] {
		if rec.Role != RoleRelated {
			t.Fatalf("%s role = %s, want related", rec.Key, rec.Role)
		}
	}
	if got := fake.searchBodies[0].JQL; got != "issue = PROJ-1 OR parent = PROJ-1" {
		t.Fatalf("jql = %q", got)
	}
}

func TestFetchIssueGraphFollowsPages(t *testing.T) {
	t.Parallel()

	fake := projectFixture()
	fake.pageSize = 2
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	doc, err := newTestClient(t, srv).FetchIssueGraph(context.Background(), "PROJ-5")
	if err != nil {
		t.Fatalf("FetchIssueGraph() error = %v", err)
	}
	if len(doc) != 3 {
		t.Fatalf("expected 3 records, got %d", len(doc))
	}
	if len(fake.searchBodies) != 2 {
		t.Fatalf("expected 2 search pages, got %d", len(fake.searchBodies))
	}
	if fake.searchBodies[1].StartAt != 2 {
		t.Fatalf("second page startAt = %d", fake.searchBodies[1].StartAt)
	}
}

func TestFetchIssueGraphServerErrorFailsWholeBatch(t *testing.T) {
	t.Parallel()

	fake := projectFixture()
	fake.status = http.StatusInternalServerError
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	doc, err := newTestClient(t, srv).FetchIssueGraph(context.Background(), "PROJ-5")
	if !errors.Is(err, contractx.ErrTrackerUnavailable) {
		t.Fatalf("expected ErrTrackerUnavailable, got %v", err)
	}
	if doc != nil {
		t.Fatalf("expected no partial document, got %d records", len(doc))
	}
}

func TestFetchIssueGraphMalformedIssueFailsWholeBatch(t *testing.T) {
	t.Parallel()

	fake := projectFixture()
	fake.issues["PROJ-6"] = `{"key":"PROJ-6","fields":{"summary":"x","status":null,"priority":{"name":"Low"}}}`
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	_, err := newTestClient(t, srv).FetchIssueGraph(context.Background(), "PROJ-5")
	if !errors.Is(err, contractx.ErrTrackerUnavailable) || !errors.Is(err, contractx.ErrMalformedIssue) {
		t.Fatalf("expected tracker and malformed errors, got %v", err)
	}
}

func TestFetchIssueGraphEmptyKey(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(projectFixture().handler(t))
	t.Cleanup(srv.Close)

	if _, err := newTestClient(t, srv).FetchIssueGraph(context.Background(), "  "); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestFetchSingleIssue(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(projectFixture().handler(t))
	t.Cleanup(srv.Close)

	got := newTestClient(t, srv).FetchSingleIssue(context.Background(), "PROJ-6")
	want := "<fetchedIssue>\n" +
		"    <key>PROJ-6</key>\n" +
		"    <summary>Drop -legacy- form</summary>\n" +
		"    <status>Done</status>\n" +
		"    <assignee>Dana Scully</assignee>\n" +
		"    <priority>Low</priority>\n" +
		"    <description>{color:#ff0000}urgent{/color}</description>\n" +
		"</fetchedIssue>"
	if got != want {
		t.Fatalf("FetchSingleIssue() =\n%s\nwant\n%s", got, want)
	}
}

func TestFetchSingleIssueKeepsHyphenatedText(t *testing.T) {
	t.Parallel()

	fake := &fakeJira{issues: map[string]string{
		"PROJ-9": issueJSON("PROJ-9", "", "Release 2024-01-15", "Open", "Fox Mulder", "High", "Freeze on 2024-01-15 at 18:00"),
	}}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	got := newTestClient(t, srv).FetchSingleIssue(context.Background(), "PROJ-9")
	if strings.Contains(got, "crossedout") {
		t.Fatalf("single lookup rewrote hyphens: %s", got)
	}
	for _, want := range []string{"<summary>Release 2024-01-15</summary>", "<description>Freeze on 2024-01-15 at 18:00</description>"} {
		if !strings.Contains(got, want) {
			t.Fatalf("FetchSingleIssue() = %s, missing %s", got, want)
		}
	}
}

func TestNilClientReportsTrackerUnavailable(t *testing.T) {
	t.Parallel()

	var c *Client
	if _, err := c.do(context.Background(), http.MethodGet, "http://jira.invalid/rest/api/2/issue/PROJ-1", nil); !errors.Is(err, contractx.ErrTrackerUnavailable) {
		t.Fatalf("expected ErrTrackerUnavailable, got %v", err)
	}
}

func TestFetchSingleIssueFailuresYieldFixedBlock(t *testing.T) {
	t.Parallel()

	fake := projectFixture()
	fake.issues["BAD-1"] = `{"key":"BAD-1","fields":{"status":{"name":"Open"}}}`
	fake.issues["JUNK-1"] = `not json`
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)
	client := newTestClient(t, srv)

	for _, key := range []string{"NOPE-404", "BAD-1", "JUNK-1", ""} {
		if got := client.FetchSingleIssue(context.Background(), key); got != FetchFailedBlock {
			t.Fatalf("FetchSingleIssue(%q) = %q, want failure block", key, got)
		}
	}
}

func TestFetchSingleIssueUnreachableServer(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(projectFixture().handler(t))
	client := newTestClient(t, srv)
	srv.Close()

	if got := client.FetchSingleIssue(context.Background(), "PROJ-1"); got != FetchFailedBlock {
		t.Fatalf("expected failure block, got %q", got)
	}
}

func TestNewClientValidatesConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing base url", cfg: Config{Username: "u", APIKey: "k"}},
		{name: "relative base url", cfg: Config{BaseURL: "jira.local", Username: "u", APIKey: "k"}},
		{name: "missing username", cfg: Config{BaseURL: "https://jira.local", APIKey: "k"}},
		{name: "missing api key", cfg: Config{BaseURL: "https://jira.local", Username: "u"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewClient(tt.cfg); !errors.Is(err, contractx.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}
