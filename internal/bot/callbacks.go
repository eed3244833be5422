package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	ack := tgbotapi.NewCallback(cb.ID, "")
	if _, err := b.api.Request(ack); err != nil {
		b.log.Error("ack callback", "error", err)
	}

	action, value, ok := strings.Cut(cb.Data, ":")
	if !ok {
		return
	}

	b.log.Info("callback", "action", action, "value", value, "chat_id", chatID)

	switch action {
	case "lang":
		b.handleLanguageChoice(ctx, chatID, value)
	}
}

func (b *Bot) handleLanguageChoice(ctx context.Context, chatID int64, code string) {
	known := false
	for _, l := range supportedLanguages {
		if l.Code == code {
			known = true
			break
		}
	}
	if !known {
		return
	}

	if err := b.store.SetLanguage(ctx, chatID, code); err != nil {
		b.log.Error("set language", "chat_id", chatID, "error", err)
		return
	}
	b.reply(chatID, t("language_updated", code))
}
