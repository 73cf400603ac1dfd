package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/cloud206/api-footballStreaming/internal/domain/match"
	"github.com/cloud206/api-footballStreaming/internal/platform/logging"
	"github.com/cloud206/api-footballStreaming/internal/usecase"
)

type stubFeed struct {
	items   []match.Match
	err     error
	panicV  any
	lastReq usecase.FeedRequest
}

func (s *stubFeed) ListMatches(_ context.Context, req usecase.FeedRequest) ([]match.Match, error) {
	s.lastReq = req
	if s.panicV != nil {
		panic(s.panicV)
	}
	return s.items, s.err
}

func newTestRouter(feed MatchFeed, exposeStack bool) http.Handler {
	logger := logging.NewNop()
	return NewRouter(NewHandler(feed, logger, exposeStack), logger, "*")
}

func serve(handler http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("User-Agent", "test-agent/1.0")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func sampleMatches() []match.Match {
	return []match.Match{
		{
			KickoffUnix: 1736942400,
			Status:      match.StatusLive,
			Home:        match.Team{Name: "Arsenal", Logo: "https://img/ars.png"},
			Away:        match.Team{Name: "Chelsea", Logo: "https://img/che.png"},
			LeagueName:  "Premier League",
			Score:       &match.Score{Home: "2", Away: "1"},
			Servers: []match.StreamServer{
				{Name: match.ServerNameHD, StreamURL: "https://hd/1.m3u8", Referer: "https://socolivev.co/"},
			},
		},
		{
			KickoffUnix: 1737028800,
			Status:      match.StatusUpcoming,
			Home:        match.Team{Name: "Milan"},
			Away:        match.Team{Name: "Inter"},
			LeagueName:  "Serie A",
			Servers:     []match.StreamServer{},
		},
	}
}

func TestRouter_ListMatches(t *testing.T) {
	for _, target := range []string{"/matches", "/matches/", "/matches?date=ignored"} {
		t.Run(target, func(t *testing.T) {
			feed := &stubFeed{items: sampleMatches()}
			rec := serve(newTestRouter(feed, true), http.MethodGet, target)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}
			if got := rec.Header().Get("Content-Type"); got != "application/json" {
				t.Fatalf("unexpected Content-Type: %q", got)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
			}
			if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, OPTIONS" {
				t.Fatalf("unexpected Access-Control-Allow-Methods: %q", got)
			}
			if feed.lastReq.UserAgent != "test-agent/1.0" {
				t.Fatalf("expected caller user agent to reach the feed, got %q", feed.lastReq.UserAgent)
			}

			var body []map[string]any
			if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal response body: %v", err)
			}
			if len(body) != 2 {
				t.Fatalf("expected 2 matches, got %d", len(body))
			}
			if got := body[0]["match_time"]; got != "1736942400" {
				t.Fatalf("expected match_time as string seconds, got %v", got)
			}
			if got := body[0]["match_score"]; got != "2 - 1" {
				t.Fatalf("unexpected match_score: %v", got)
			}
			if got, ok := body[1]["match_score"]; !ok || got != nil {
				t.Fatalf("expected explicit null match_score, got %v (present=%v)", got, ok)
			}
			servers, ok := body[1]["servers"].([]any)
			if !ok || len(servers) != 0 {
				t.Fatalf("expected empty servers array, got %v", body[1]["servers"])
			}
		})
	}
}

func TestRouter_ListMatches_FieldOrderAndIndent(t *testing.T) {
	rec := serve(newTestRouter(&stubFeed{items: sampleMatches()[:1]}, true), http.MethodGet, "/matches")

	raw := rec.Body.String()
	if !strings.HasPrefix(raw, "[\n  {\n    \"match_time\": \"1736942400\",") {
		t.Fatalf("unexpected body layout:\n%s", raw)
	}
	if strings.HasSuffix(raw, "\n") {
		t.Fatalf("expected no trailing newline")
	}

	keys := []string{
		`"match_time"`, `"match_status"`, `"home_team_name"`, `"home_team_logo"`,
		`"away_team_name"`, `"away_team_logo"`, `"league_name"`, `"match_score"`, `"servers"`,
		`"name": "Soco HD"`, `"stream_url"`, `"referer"`,
	}
	last := -1
	for _, key := range keys {
		idx := strings.Index(raw, key)
		if idx <= last {
			t.Fatalf("key %s out of order in:\n%s", key, raw)
		}
		last = idx
	}
}

func TestRouter_EmptyFeed(t *testing.T) {
	rec := serve(newTestRouter(&stubFeed{}, true), http.MethodGet, "/matches")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "[]" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestRouter_OptionsPreflight(t *testing.T) {
	for _, target := range []string{"/anything", "/matches"} {
		rec := serve(newTestRouter(&stubFeed{}, true), http.MethodOptions, target)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", target, rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Fatalf("%s: expected empty body, got %q", target, rec.Body.String())
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Fatalf("%s: unexpected Access-Control-Allow-Origin: %q", target, got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, OPTIONS" {
			t.Fatalf("%s: unexpected Access-Control-Allow-Methods: %q", target, got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "*" {
			t.Fatalf("%s: unexpected Access-Control-Allow-Headers: %q", target, got)
		}
	}
}

func TestRouter_NotFound(t *testing.T) {
	tests := []struct {
		method string
		target string
	}{
		{method: http.MethodGet, target: "/unknown-path"},
		{method: http.MethodGet, target: "/"},
		{method: http.MethodGet, target: "/matches/extra"},
		{method: http.MethodPost, target: "/matches"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := serve(newTestRouter(&stubFeed{}, true), tt.method, tt.target)

			if rec.Code != http.StatusNotFound {
				t.Fatalf("expected status 404, got %d", rec.Code)
			}
			if got := rec.Body.String(); got != "Not Found" {
				t.Fatalf("unexpected body: %q", got)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
			}
		})
	}
}

func TestRouter_PanicBecomesInternalError(t *testing.T) {
	rec := serve(newTestRouter(&stubFeed{panicV: "boom"}, true), http.MethodGet, "/matches")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
	}

	var body errorResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.Error != internalErrorTitle {
		t.Fatalf("unexpected error field: %q", body.Error)
	}
	if !strings.Contains(body.Message, "boom") {
		t.Fatalf("expected panic value in message, got %q", body.Message)
	}
	if body.Stack == "" {
		t.Fatalf("expected stack when stack traces are exposed")
	}
}

func TestRouter_FeedErrorHidesStackWhenDisabled(t *testing.T) {
	feed := &stubFeed{err: crerr.Wrap(usecase.ErrDependencyUnavailable, "match feed service is not wired")}
	rec := serve(newTestRouter(feed, false), http.MethodGet, "/matches")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if got := body["message"]; got != "match feed service is not wired: dependency unavailable" {
		t.Fatalf("unexpected message: %v", got)
	}
	if got, ok := body["stack"]; !ok || got != "" {
		t.Fatalf("expected blank stack field, got %v (present=%v)", got, ok)
	}
}

func TestCORS_UsesConfiguredOrigin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS("https://watch.example.com", next)

	rec := serve(handler, http.MethodGet, "/matches")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://watch.example.com" {
		t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
	}

	rec = serve(CORS("  ", next), http.MethodGet, "/matches")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard fallback, got %q", got)
	}
}
