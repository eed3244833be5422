package upstream

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"matchbot/internal/model"
	"matchbot/internal/snapshot"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestClient(transport http.RoundTripper) *Client {
	c := NewClient("https://api.example.com", "token", transport, discardLogger())
	c.perPage = 2
	return c
}

func newTestSnapStore(t *testing.T) *snapshot.Store {
	t.Helper()
	store, err := snapshot.NewStore(t.TempDir(), discardLogger())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestFetchMatchesPaginates(t *testing.T) {
	pages := map[string]string{
		"1": `[{"id": 1, "status": "not_started"}, {"id": 2, "status": "not_started"}]`,
		"2": `[{"id": 3, "status": "not_started"}]`,
	}
	var requested []string
	transport := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		page := req.URL.Query().Get("page")
		requested = append(requested, page)
		return jsonResponse(http.StatusOK, pages[page]), nil
	})

	client := newTestClient(transport)
	got, err := client.FetchMatches(context.Background(), model.QueryUpcoming)
	if err != nil {
		t.Fatalf("FetchMatches: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 matches across pages, got %d", len(got))
	}
	if len(requested) != 2 {
		t.Errorf("expected 2 page requests, got %v", requested)
	}
}

func TestFetchMatchesStopsOnEmptyPage(t *testing.T) {
	calls := 0
	transport := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return jsonResponse(http.StatusOK, `[{"id": 1, "status": "running"}, {"id": 2, "status": "running"}]`), nil
		}
		return jsonResponse(http.StatusOK, `[]`), nil
	})

	client := newTestClient(transport)
	got, err := client.FetchMatches(context.Background(), model.QueryRunning)
	if err != nil {
		t.Fatalf("FetchMatches: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if calls != 2 {
		t.Errorf("expected fetching to stop after the empty page, got %d calls", calls)
	}
}

func TestFetchMatchesSkipsMalformedRecord(t *testing.T) {
	calls := 0
	transport := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			return jsonResponse(http.StatusOK, `[{"id": 1, "status": "running"}, {"id": "not-a-number"}]`), nil
		}
		return jsonResponse(http.StatusOK, `[]`), nil
	})

	client := newTestClient(transport)
	got, err := client.FetchMatches(context.Background(), model.QueryRunning)
	if err != nil {
		t.Fatalf("FetchMatches: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected the malformed record to be skipped, got %d matches", len(got))
	}
	if got[0].ID != 1 {
		t.Errorf("unexpected match id %d", got[0].ID)
	}
}

func TestFetchMatchesUpstreamError(t *testing.T) {
	transport := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, `{"error": "upstream down"}`), nil
	})

	client := newTestClient(transport)
	if _, err := client.FetchMatches(context.Background(), model.QueryPast); err == nil {
		t.Fatal("expected error from failing endpoint")
	}
}

func TestFetchMatchesSendsAuthAndPath(t *testing.T) {
	var gotPath, gotAuth string
	transport := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		gotAuth = req.Header.Get("Authorization")
		return jsonResponse(http.StatusOK, `[]`), nil
	})

	client := newTestClient(transport)
	if _, err := client.FetchMatches(context.Background(), model.QueryUpcoming); err != nil {
		t.Fatalf("FetchMatches: %v", err)
	}

	if gotPath != "/csgo/matches/upcoming" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer token" {
		t.Errorf("unexpected authorization header %q", gotAuth)
	}
}

func TestFetchTournaments(t *testing.T) {
	transport := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/csgo/tournaments" {
			t.Errorf("unexpected path %q", req.URL.Path)
		}
		return jsonResponse(http.StatusOK, `[{"id": 9, "name": "Major", "tier": "s"}]`), nil
	})

	client := newTestClient(transport)
	got, err := client.FetchTournaments(context.Background())
	if err != nil {
		t.Fatalf("FetchTournaments: %v", err)
	}

	if len(got) != 1 || got[0].Name != "Major" {
		t.Fatalf("unexpected tournaments %+v", got)
	}
}

func TestRefreshMergesEndpoints(t *testing.T) {
	bodies := map[string]string{
		"/csgo/matches/running":  `[{"id": 1, "status": "running"}]`,
		"/csgo/matches/upcoming": `[{"id": 2, "status": "not_started", "begin_at": "2026-03-01T18:00:00Z"}]`,
		"/csgo/matches/past":     `[{"id": 3, "status": "finished"}]`,
	}
	transport := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, bodies[req.URL.Path]), nil
	})

	store := newTestSnapStore(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))
	ref := NewRefresher(newTestClient(transport), store, clock, discardLogger())

	if err := ref.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	snap := store.Read(snapshot.MatchesName)
	if len(snap.Matches) != 3 {
		t.Fatalf("expected 3 merged matches, got %d", len(snap.Matches))
	}
	if snap.UpdatedAt == nil || !snap.UpdatedAt.Equal(clock.Now()) {
		t.Errorf("unexpected UpdatedAt %v", snap.UpdatedAt)
	}
}

func TestRefreshToleratesOneFailedEndpoint(t *testing.T) {
	transport := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path == "/csgo/matches/past" {
			return jsonResponse(http.StatusInternalServerError, `{}`), nil
		}
		return jsonResponse(http.StatusOK, `[{"id": 1, "status": "running"}]`), nil
	})

	store := newTestSnapStore(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))
	ref := NewRefresher(newTestClient(transport), store, clock, discardLogger())

	if err := ref.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh should succeed with one endpoint down: %v", err)
	}

	snap := store.Read(snapshot.MatchesName)
	if len(snap.Matches) != 2 {
		t.Fatalf("expected matches from the reachable endpoints, got %d", len(snap.Matches))
	}
}

func TestRefreshKeepsPreviousSnapshotWhenAllEndpointsFail(t *testing.T) {
	store := newTestSnapStore(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))

	okTransport := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path == "/csgo/matches/running" {
			return jsonResponse(http.StatusOK, `[{"id": 7, "status": "running"}]`), nil
		}
		return jsonResponse(http.StatusOK, `[]`), nil
	})
	ref := NewRefresher(newTestClient(okTransport), store, clock, discardLogger())
	if err := ref.Refresh(context.Background()); err != nil {
		t.Fatalf("seeding Refresh: %v", err)
	}

	downTransport := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusServiceUnavailable, `{}`), nil
	})
	ref = NewRefresher(newTestClient(downTransport), store, clock, discardLogger())
	if err := ref.Refresh(context.Background()); err == nil {
		t.Fatal("expected error when every endpoint is unreachable")
	}

	snap := store.Read(snapshot.MatchesName)
	if len(snap.Matches) != 1 || snap.Matches[0].ID != 7 {
		t.Fatalf("previous snapshot should survive, got %+v", snap.Matches)
	}
}
