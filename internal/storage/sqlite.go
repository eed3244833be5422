package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite" // SQLite driver registration.

	"matchbot/internal/model"
	"matchbot/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database. Every write is
// a single statement or a single transaction, so concurrent readers
// never observe a half-written row. Timestamps come from the injected
// clock so windowed reads and pruning agree with the dispatcher.
type SQLite struct {
	db    *sql.DB
	clock clockwork.Clock
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string, clock clockwork.Clock) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db, clock: clock}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// UpsertSubscriber inserts or updates a subscriber row. On conflict the
// tier is overwritten and everything else is preserved.
func (s *SQLite) UpsertSubscriber(ctx context.Context, userID int64, tier model.TierGroup) error {
	now := s.clock.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscribers (user_id, tier, is_active, language, joined_at)
		 VALUES (?, ?, 1, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET tier = excluded.tier`,
		userID, string(tier), model.DefaultLanguage, now,
	)
	if err != nil {
		return fmt.Errorf("upsert subscriber: %w", err)
	}
	return nil
}

// SetActive flips the soft-delete flag for a subscriber.
func (s *SQLite) SetActive(ctx context.Context, userID int64, active bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE subscribers SET is_active = ? WHERE user_id = ?`,
		boolToInt(active), userID,
	)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	return nil
}

// SetTier updates the subscriber's tier group.
func (s *SQLite) SetTier(ctx context.Context, userID int64, tier model.TierGroup) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE subscribers SET tier = ? WHERE user_id = ?`,
		string(tier), userID,
	)
	if err != nil {
		return fmt.Errorf("set tier: %w", err)
	}
	return nil
}

// SetLanguage updates the subscriber's preferred language.
func (s *SQLite) SetLanguage(ctx context.Context, userID int64, lang string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE subscribers SET language = ? WHERE user_id = ?`,
		lang, userID,
	)
	if err != nil {
		return fmt.Errorf("set language: %w", err)
	}
	return nil
}

// ListActiveSubscribers returns every subscriber with is_active set.
func (s *SQLite) ListActiveSubscribers(ctx context.Context) ([]model.Subscriber, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, tier, is_active, language, joined_at
		 FROM subscribers WHERE is_active = 1 ORDER BY user_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query active subscribers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var subs []model.Subscriber
	for rows.Next() {
		sub, err := scanSubscriber(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// GetTier returns the subscriber's tier group. Unknown users default to
// the top-tier group.
func (s *SQLite) GetTier(ctx context.Context, userID int64) (model.TierGroup, error) {
	var tier string
	err := s.db.QueryRowContext(ctx,
		`SELECT tier FROM subscribers WHERE user_id = ?`, userID,
	).Scan(&tier)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TierTop, nil
	}
	if err != nil {
		return model.TierTop, fmt.Errorf("get tier: %w", err)
	}
	return model.ParseTierGroup(tier), nil
}

// GetLanguage returns the subscriber's language, defaulting to "en" for
// unknown users.
func (s *SQLite) GetLanguage(ctx context.Context, userID int64) (string, error) {
	var lang string
	err := s.db.QueryRowContext(ctx,
		`SELECT language FROM subscribers WHERE user_id = ?`, userID,
	).Scan(&lang)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultLanguage, nil
	}
	if err != nil {
		return model.DefaultLanguage, fmt.Errorf("get language: %w", err)
	}
	if lang == "" {
		return model.DefaultLanguage, nil
	}
	return lang, nil
}

// WasNotified checks whether the user was already alerted about a match.
func (s *SQLite) WasNotified(ctx context.Context, userID, matchID int64) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notified_matches WHERE user_id = ? AND match_id = ?`,
		userID, matchID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check notified: %w", err)
	}
	return count > 0, nil
}

// MarkNotified records a delivered notification. Duplicate marks are
// silently ignored.
func (s *SQLite) MarkNotified(ctx context.Context, userID, matchID int64) error {
	now := s.clock.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO notified_matches (user_id, match_id, notified_at) VALUES (?, ?, ?)`,
		userID, matchID, now,
	)
	if err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	return nil
}

// MarkNotifiedBulk records many delivered notifications in one
// transaction.
func (s *SQLite) MarkNotifiedBulk(ctx context.Context, pairs []model.NotifiedMatch) error {
	if len(pairs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := s.clock.Now().UTC().Format(timeLayout)
	for _, p := range pairs {
		notifiedAt := now
		if !p.NotifiedAt.IsZero() {
			notifiedAt = p.NotifiedAt.UTC().Format(timeLayout)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO notified_matches (user_id, match_id, notified_at) VALUES (?, ?, ?)`,
			p.UserID, p.MatchID, notifiedAt,
		); err != nil {
			return fmt.Errorf("mark notified bulk: %w", err)
		}
	}
	return tx.Commit()
}

// RecentlyNotifiedIDs returns the match ids the user was alerted about
// within the window, as a set.
func (s *SQLite) RecentlyNotifiedIDs(ctx context.Context, userID int64, window time.Duration) (map[int64]struct{}, error) {
	cutoff := s.clock.Now().UTC().Add(-window).Format(timeLayout)
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_id FROM notified_matches WHERE user_id = ? AND notified_at >= ?`,
		userID, cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("query notified ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan notified id: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// PruneNotified removes notification records older than the window.
// Safe at any time: a pruned match's notification window has long passed.
func (s *SQLite) PruneNotified(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.clock.Now().UTC().Add(-olderThan).Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM notified_matches WHERE notified_at < ?`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("prune notified: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func scanSubscriber(rows *sql.Rows) (model.Subscriber, error) {
	var sub model.Subscriber
	var tier string
	var isActive int
	var joined sql.NullString
	if err := rows.Scan(&sub.UserID, &tier, &isActive, &sub.Language, &joined); err != nil {
		return sub, fmt.Errorf("scan subscriber: %w", err)
	}
	sub.Tier = model.ParseTierGroup(tier)
	sub.IsActive = isActive == 1
	if sub.Language == "" {
		sub.Language = model.DefaultLanguage
	}
	if joined.Valid {
		sub.JoinedAt, _ = time.Parse(timeLayout, joined.String)
	}
	return sub, nil
}
