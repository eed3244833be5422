// Package upstream fetches raw match and tournament data from the
// PandaScore API and normalizes it into the canonical model types.
package upstream

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/sethvargo/go-retry"

	"matchbot/internal/model"
)

// RawStream is one entry of the upstream streams_list.
type RawStream struct {
	Main   bool   `json:"main"`
	RawURL string `json:"raw_url"`
}

// RawTeam is the inner team descriptor of an opponent wrapper.
type RawTeam struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Acronym string `json:"acronym"`
}

// RawOpponent is the upstream opponent wrapper object.
type RawOpponent struct {
	Opponent RawTeam `json:"opponent"`
}

// RawResult is one per-team score entry.
type RawResult struct {
	TeamID int64 `json:"team_id"`
	Score  int   `json:"score"`
}

// RawMatch mirrors the upstream match payload shape.
type RawMatch struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Status      string        `json:"status"`
	BeginAt     string        `json:"begin_at"`
	WinnerID    *int64        `json:"winner_id"`
	Opponents   []RawOpponent `json:"opponents"`
	StreamsList []RawStream   `json:"streams_list"`
	Results     []RawResult   `json:"results"`
	League      struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"league"`
	Serie struct {
		FullName string `json:"full_name"`
	} `json:"serie"`
	Tournament struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Tier string `json:"tier"`
	} `json:"tournament"`
}

// RawTournament mirrors the upstream tournament payload shape.
type RawTournament struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Tier string `json:"tier"`
}

// Client talks to the per-status PandaScore endpoints. The upstream is
// treated as best-effort: transient failures are retried with backoff
// and callers degrade to the previous snapshot on persistent failure.
type Client struct {
	baseURL   string
	token     string
	transport http.RoundTripper
	perPage   int
	maxPages  int
	timeout   time.Duration
	log       *slog.Logger
}

// NewClient creates a Client. A nil transport uses http.DefaultTransport.
func NewClient(baseURL, token string, transport http.RoundTripper, log *slog.Logger) *Client {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		baseURL:   baseURL,
		token:     token,
		transport: transport,
		perPage:   100,
		maxPages:  20,
		timeout:   30 * time.Second,
		log:       log,
	}
}

// FetchMatches retrieves every page of the given per-status match
// endpoint. A record that fails to decode is skipped, not fatal.
func (c *Client) FetchMatches(ctx context.Context, status model.QueryStatus) ([]RawMatch, error) {
	var all []RawMatch
	for page := 1; page <= c.maxPages; page++ {
		items, err := c.fetchPage(ctx, "/csgo/matches/"+string(status), page)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			break
		}
		for _, item := range items {
			var m RawMatch
			if err := json.Unmarshal(item, &m); err != nil {
				c.log.Warn("skipping malformed match record", "status", status, "error", err)
				continue
			}
			all = append(all, m)
		}
		if len(items) < c.perPage {
			break
		}
	}
	return all, nil
}

// FetchTournaments retrieves every page of the tournament list.
func (c *Client) FetchTournaments(ctx context.Context) ([]RawTournament, error) {
	var all []RawTournament
	for page := 1; page <= c.maxPages; page++ {
		items, err := c.fetchPage(ctx, "/csgo/tournaments", page)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			break
		}
		for _, item := range items {
			var t RawTournament
			if err := json.Unmarshal(item, &t); err != nil {
				c.log.Warn("skipping malformed tournament record", "error", err)
				continue
			}
			all = append(all, t)
		}
		if len(items) < c.perPage {
			break
		}
	}
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, path string, page int) ([]json.RawMessage, error) {
	var items []json.RawMessage

	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		items = items[:0]
		err := requests.URL(c.baseURL).
			Path(path).
			Param("page", strconv.Itoa(page)).
			Param("per_page", strconv.Itoa(c.perPage)).
			Bearer(c.token).
			Transport(c.transport).
			ToJSON(&items).
			Fetch(reqCtx)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
