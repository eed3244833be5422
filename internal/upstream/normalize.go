package upstream

import (
	"log/slog"
	"time"

	"matchbot/internal/model"
)

// maxOpponents caps the teams kept per match; upstream occasionally
// reports placeholder extras.
const maxOpponents = 2

// Normalize converts one raw upstream match into the canonical form.
// Missing nested fields become zero values; an unparseable begin_at is
// logged and left nil so time-based filters exclude the match.
func Normalize(raw RawMatch, log *slog.Logger) model.Match {
	m := model.Match{
		ID:     raw.ID,
		Name:   raw.Name,
		Status: model.MatchStatus(raw.Status),
		Tournament: model.Tournament{
			ID:   raw.Tournament.ID,
			Name: raw.Tournament.Name,
			Tier: raw.Tournament.Tier,
		},
		League: model.League{
			ID:   raw.League.ID,
			Name: raw.League.Name,
		},
		Serie:     model.Serie{FullName: raw.Serie.FullName},
		WinnerID:  raw.WinnerID,
		StreamURL: streamURL(raw.StreamsList),
	}

	if raw.BeginAt != "" {
		t, err := time.Parse(time.RFC3339, raw.BeginAt)
		if err != nil {
			log.Warn("unparseable begin_at", "match_id", raw.ID, "begin_at", raw.BeginAt)
		} else {
			t = t.UTC()
			m.BeginAt = &t
		}
	}

	for _, o := range raw.Opponents {
		if len(m.Opponents) == maxOpponents {
			break
		}
		m.Opponents = append(m.Opponents, model.Team{
			ID:      o.Opponent.ID,
			Name:    o.Opponent.Name,
			Acronym: o.Opponent.Acronym,
		})
	}

	for _, r := range raw.Results {
		m.Results = append(m.Results, model.Result{TeamID: r.TeamID, Score: r.Score})
	}

	return m
}

// NormalizeAll converts a raw batch, dropping records without a stable
// id. One bad record never aborts the rest of the batch.
func NormalizeAll(raws []RawMatch, log *slog.Logger) []model.Match {
	out := make([]model.Match, 0, len(raws))
	for _, raw := range raws {
		if raw.ID == 0 {
			log.Warn("skipping match without id", "name", raw.Name)
			continue
		}
		out = append(out, Normalize(raw, log))
	}
	return out
}

// streamURL picks the broadcast link: a stream flagged as main with a
// non-empty URL wins, else the first stream with any URL, else nil.
func streamURL(streams []RawStream) *string {
	for _, s := range streams {
		if s.Main && s.RawURL != "" {
			url := s.RawURL
			return &url
		}
	}
	for _, s := range streams {
		if s.RawURL != "" {
			url := s.RawURL
			return &url
		}
	}
	return nil
}
