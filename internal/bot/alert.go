package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"matchbot/internal/model"
	"matchbot/internal/notify"
)

// SendMatchAlert delivers a pre-start notification to one user. A 403
// from Telegram means the user blocked the bot or deleted their
// account; that is reported as notify.ErrRecipientUnreachable so the
// dispatcher can deactivate the subscriber.
func (b *Bot) SendMatchAlert(ctx context.Context, userID int64, match model.Match, lang string) error {
	card, keyboard := BuildMatchCard(match, CardOptions{
		ShowTimeUntil: true,
		StreamButton:  true,
		Now:           b.clock.Now().UTC(),
		Lang:          lang,
	})
	text := t("prefix_starting", lang) + "\n\n" + card

	msg := tgbotapi.NewMessage(userID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}

	if _, err := b.api.Send(msg); err != nil {
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusForbidden {
			return fmt.Errorf("send alert to %d: %w", userID, notify.ErrRecipientUnreachable)
		}
		return fmt.Errorf("send alert to %d: %w", userID, err)
	}
	return nil
}
