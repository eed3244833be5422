// Package model defines the domain types used across the application.
package model

import (
	"strings"
	"time"
)

// MatchStatus is the authoritative match state reported by the upstream API.
type MatchStatus string

// Known match statuses.
const (
	StatusNotStarted MatchStatus = "not_started"
	StatusRunning    MatchStatus = "running"
	StatusFinished   MatchStatus = "finished"
)

// QueryStatus selects which slice of the snapshot a query returns.
type QueryStatus string

// Supported query statuses.
const (
	QueryUpcoming QueryStatus = "upcoming"
	QueryRunning  QueryStatus = "running"
	QueryPast     QueryStatus = "past"
)

// Tournament is the competition a match belongs to.
// Tier is a single letter s/a/b/c/d (s highest); empty when unknown.
type Tournament struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Tier string `json:"tier"`
}

// League identifies the organizing league.
type League struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Serie is the stage of a tournament (e.g. "Group Stage", "Playoffs").
type Serie struct {
	FullName string `json:"full_name"`
}

// Team describes one side of a match.
type Team struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Acronym string `json:"acronym"`
}

// Result is one team's score in a finished or running match.
type Result struct {
	TeamID int64 `json:"team_id"`
	Score  int   `json:"score"`
}

// Match is the canonical, normalized representation of one contest.
// BeginAt is nil when the upstream start time is absent or unparseable;
// such matches are excluded from time-based filters.
type Match struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name,omitempty"`
	Status     MatchStatus `json:"status"`
	BeginAt    *time.Time  `json:"begin_at"`
	Tournament Tournament  `json:"tournament"`
	League     League      `json:"league"`
	Serie      Serie       `json:"serie"`
	Opponents  []Team      `json:"opponents"`
	WinnerID   *int64      `json:"winner_id,omitempty"`
	Results    []Result    `json:"results,omitempty"`
	StreamURL  *string     `json:"stream_url"`
}

// Snapshot is the full cached view of match data, replaced wholesale on
// each refresh.
type Snapshot struct {
	Matches   []Match    `json:"matches"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// TournamentSnapshot is the cached tournament list.
type TournamentSnapshot struct {
	Tournaments []Tournament `json:"tournaments"`
	UpdatedAt   *time.Time   `json:"updated_at"`
}

// TierGroup is the subscription-level tier vocabulary: either the
// top-tier group {s, a} or everything.
type TierGroup string

// Supported tier groups.
const (
	TierTop TierGroup = "sa"
	TierAll TierGroup = "all"
)

// ParseTierGroup maps a stored or user-supplied tier string to a group.
// Unrecognized values fall back to TierAll rather than erroring.
func ParseTierGroup(s string) TierGroup {
	if strings.ToLower(strings.TrimSpace(s)) == string(TierTop) {
		return TierTop
	}
	return TierAll
}

// TierGroupFromAPIParam translates the public REST tier parameter:
// "1" means the top-tier group, anything else means all tournaments.
func TierGroupFromAPIParam(s string) TierGroup {
	if s == "1" {
		return TierTop
	}
	return TierAll
}

// Accepts reports whether a tournament tier letter belongs to the group.
// TierTop accepts only s and a (case-insensitive); missing or
// unrecognized tiers are excluded from it.
func (g TierGroup) Accepts(tier string) bool {
	if g == TierAll {
		return true
	}
	switch strings.ToLower(tier) {
	case "s", "a":
		return true
	}
	return false
}

// DefaultLanguage is the language assumed for users who never picked one.
const DefaultLanguage = "en"

// Subscriber is one chat user receiving match notifications.
// Subscribers are never hard-deleted; unsubscribing clears IsActive.
type Subscriber struct {
	UserID   int64
	Tier     TierGroup
	IsActive bool
	Language string
	JoinedAt time.Time
}

// NotifiedMatch records that a user was alerted about a match.
type NotifiedMatch struct {
	UserID     int64
	MatchID    int64
	NotifiedAt time.Time
}
