package bot

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"matchbot/internal/model"
)

// CardOptions controls which optional lines a match card includes.
type CardOptions struct {
	ShowTimeUntil bool
	ShowWinner    bool
	StreamButton  bool
	Now           time.Time
	Lang          string
}

// BuildMatchCard renders one match as an HTML message, plus an inline
// stream button when a stream URL exists and one was requested.
func BuildMatchCard(m model.Match, opts CardOptions) (string, *tgbotapi.InlineKeyboardMarkup) {
	lang := opts.Lang
	if lang == "" {
		lang = model.DefaultLanguage
	}

	team1, team2 := TeamNames(m)

	var b strings.Builder
	fmt.Fprintf(&b, "%s | %s\n", orUnknown(m.League.Name), orUnknown(m.Tournament.Name))
	fmt.Fprintf(&b, "%s\n", orUnknown(m.Serie.FullName))
	fmt.Fprintf(&b, "<b>%s vs %s</b>", team1, team2)

	if opts.ShowWinner && m.Status == model.StatusFinished && m.WinnerID != nil {
		fmt.Fprintf(&b, "\n<b>%s</b> %s", t("winner", lang), winnerName(m))
	}

	if opts.ShowTimeUntil && m.BeginAt != nil {
		until := FormatTimeUntil(*m.BeginAt, opts.Now, lang)
		if until != t("unknown_time", lang) {
			fmt.Fprintf(&b, "\n<b>%s</b> %s", t("time_until", lang), until)
		}
	}

	var keyboard *tgbotapi.InlineKeyboardMarkup
	if m.StreamURL != nil && strings.HasPrefix(*m.StreamURL, "http") {
		if opts.StreamButton {
			kb := tgbotapi.NewInlineKeyboardMarkup(
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonURL(team1+" vs "+team2, *m.StreamURL),
				),
			)
			keyboard = &kb
		} else {
			fmt.Fprintf(&b, "\n%s", *m.StreamURL)
		}
	} else {
		fmt.Fprintf(&b, "\n<i>%s</i>", t("no_stream", lang))
	}

	return b.String(), keyboard
}

// TeamNames returns display names for both sides, with placeholders for
// missing opponents.
func TeamNames(m model.Match) (string, string) {
	team1, team2 := "Team1", "Team2"
	if len(m.Opponents) > 0 && m.Opponents[0].Name != "" {
		team1 = m.Opponents[0].Name
	}
	if len(m.Opponents) > 1 && m.Opponents[1].Name != "" {
		team2 = m.Opponents[1].Name
	}
	return team1, team2
}

// FormatTimeUntil renders the time remaining before begin as a short
// localized phrase.
func FormatTimeUntil(begin, now time.Time, lang string) string {
	delta := begin.Sub(now)
	if delta < 0 {
		return t("already_started", lang)
	}

	days := int(delta.Hours()) / 24
	hours := int(delta.Hours()) % 24
	minutes := int(delta.Minutes()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", days, t("day_short", lang)))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", hours, t("hour_short", lang)))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", minutes, t("minute_short", lang)))
	}

	if len(parts) == 0 {
		return t("few_minutes", lang)
	}
	return strings.Join(parts, " ")
}

func winnerName(m model.Match) string {
	for _, team := range m.Opponents {
		if m.WinnerID != nil && team.ID == *m.WinnerID {
			if team.Name != "" {
				return team.Name
			}
			if team.Acronym != "" {
				return team.Acronym
			}
		}
	}
	return "?"
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
