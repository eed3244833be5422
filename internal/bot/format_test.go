package bot

import (
	"strings"
	"testing"
	"time"

	"matchbot/internal/model"
)

var cardNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleMatch() model.Match {
	begin := cardNow.Add(90 * time.Minute)
	stream := "https://twitch.tv/esl"
	return model.Match{
		ID:      1,
		Status:  model.StatusNotStarted,
		BeginAt: &begin,
		Tournament: model.Tournament{
			ID:   7,
			Name: "Katowice Major",
			Tier: "s",
		},
		League: model.League{ID: 3, Name: "ESL"},
		Serie:  model.Serie{FullName: "Playoffs"},
		Opponents: []model.Team{
			{ID: 11, Name: "Alpha", Acronym: "ALP"},
			{ID: 22, Name: "Beta", Acronym: "BET"},
		},
		StreamURL: &stream,
	}
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("expected %q to contain %q", haystack, needle)
	}
}

func TestBuildMatchCardUpcoming(t *testing.T) {
	text, keyboard := BuildMatchCard(sampleMatch(), CardOptions{
		ShowTimeUntil: true,
		Now:           cardNow,
		Lang:          "en",
	})

	requireContains(t, text, "ESL | Katowice Major")
	requireContains(t, text, "Playoffs")
	requireContains(t, text, "<b>Alpha vs Beta</b>")
	requireContains(t, text, "1 h 30 min")
	if keyboard != nil {
		t.Error("no keyboard expected without StreamButton")
	}
	// Without a button the stream link is inlined.
	requireContains(t, text, "https://twitch.tv/esl")
}

func TestBuildMatchCardStreamButton(t *testing.T) {
	text, keyboard := BuildMatchCard(sampleMatch(), CardOptions{
		StreamButton: true,
		Lang:         "en",
	})

	if keyboard == nil {
		t.Fatal("expected an inline stream button")
	}
	button := keyboard.InlineKeyboard[0][0]
	if button.URL == nil || *button.URL != "https://twitch.tv/esl" {
		t.Errorf("unexpected button url %v", button.URL)
	}
	if button.Text != "Alpha vs Beta" {
		t.Errorf("unexpected button text %q", button.Text)
	}
	if strings.Contains(text, "https://twitch.tv/esl") {
		t.Error("stream url should live on the button, not in the text")
	}
}

func TestBuildMatchCardNoStream(t *testing.T) {
	m := sampleMatch()
	m.StreamURL = nil

	text, keyboard := BuildMatchCard(m, CardOptions{StreamButton: true, Lang: "en"})
	if keyboard != nil {
		t.Error("no keyboard expected without a stream url")
	}
	requireContains(t, text, "<i>No stream available</i>")
}

func TestBuildMatchCardIgnoresNonHTTPStream(t *testing.T) {
	m := sampleMatch()
	bad := "javascript:alert(1)"
	m.StreamURL = &bad

	_, keyboard := BuildMatchCard(m, CardOptions{StreamButton: true, Lang: "en"})
	if keyboard != nil {
		t.Error("non-http stream url must not become a button")
	}
}

func TestBuildMatchCardWinner(t *testing.T) {
	m := sampleMatch()
	m.Status = model.StatusFinished
	winner := int64(22)
	m.WinnerID = &winner

	text, _ := BuildMatchCard(m, CardOptions{ShowWinner: true, Lang: "en"})
	requireContains(t, text, "Winner:")
	requireContains(t, text, "Beta")
}

func TestBuildMatchCardWinnerHiddenWhileRunning(t *testing.T) {
	m := sampleMatch()
	m.Status = model.StatusRunning
	winner := int64(22)
	m.WinnerID = &winner

	text, _ := BuildMatchCard(m, CardOptions{ShowWinner: true, Lang: "en"})
	if strings.Contains(text, "Winner:") {
		t.Error("winner line must wait for the finished status")
	}
}

func TestBuildMatchCardMissingFields(t *testing.T) {
	text, _ := BuildMatchCard(model.Match{ID: 1}, CardOptions{Lang: "en"})

	requireContains(t, text, "? | ?")
	requireContains(t, text, "<b>Team1 vs Team2</b>")
}

func TestBuildMatchCardLocalized(t *testing.T) {
	m := sampleMatch()
	m.StreamURL = nil

	text, _ := BuildMatchCard(m, CardOptions{Lang: "ru"})
	requireContains(t, text, "Трансляция отсутствует")
}

func TestTeamNames(t *testing.T) {
	m := sampleMatch()
	t1, t2 := TeamNames(m)
	if t1 != "Alpha" || t2 != "Beta" {
		t.Errorf("unexpected team names %q, %q", t1, t2)
	}

	m.Opponents = m.Opponents[:1]
	t1, t2 = TeamNames(m)
	if t1 != "Alpha" || t2 != "Team2" {
		t.Errorf("expected placeholder for missing opponent, got %q, %q", t1, t2)
	}
}

func TestFormatTimeUntil(t *testing.T) {
	tests := []struct {
		name  string
		delta time.Duration
		want  string
	}{
		{"already started", -10 * time.Minute, "⏱ Already started"},
		{"under a minute", 30 * time.Second, "Few minutes"},
		{"minutes only", 12 * time.Minute, "12 min"},
		{"hours and minutes", 90 * time.Minute, "1 h 30 min"},
		{"days hours minutes", 26*time.Hour + 30*time.Minute, "1 d 2 h 30 min"},
		{"exact hours", 3 * time.Hour, "3 h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatTimeUntil(cardNow.Add(tt.delta), cardNow, "en")
			if got != tt.want {
				t.Errorf("FormatTimeUntil(%v) = %q, want %q", tt.delta, got, tt.want)
			}
		})
	}
}

func TestTranslationFallbacks(tc *testing.T) {
	if got := t("no_stream", "fr"); got != translations["en"]["no_stream"] {
		tc.Errorf("unknown language should fall back to English, got %q", got)
	}
	if got := t("nonexistent_key", "en"); got != "nonexistent_key" {
		tc.Errorf("unknown key should fall back to itself, got %q", got)
	}
}
