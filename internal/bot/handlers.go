package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"matchbot/internal/model"
)

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	if err := b.store.UpsertSubscriber(ctx, chatID, model.TierTop); err != nil {
		b.log.Error("upsert subscriber", "chat_id", chatID, "error", err)
	}
	if err := b.store.SetActive(ctx, chatID, true); err != nil {
		b.log.Error("activate subscriber", "chat_id", chatID, "error", err)
	}
	b.reply(chatID, t("greeting", b.language(ctx, chatID)))
}

func (b *Bot) handleHelp(ctx context.Context, chatID int64) {
	b.reply(chatID, t("help", b.language(ctx, chatID)))
}

// handleMatches answers /next, /live, and /recent with match cards at
// the subscriber's tier. Storage problems degrade to the default tier;
// an empty snapshot yields a localized "nothing found" message, never
// an error.
func (b *Bot) handleMatches(ctx context.Context, chatID int64, status model.QueryStatus) {
	lang := b.language(ctx, chatID)

	tier, err := b.store.GetTier(ctx, chatID)
	if err != nil {
		b.log.Error("get tier", "chat_id", chatID, "error", err)
		tier = model.TierTop
	}

	matches := b.engine.Matches(status, tier, matchesPerReply)

	prefixKey, emptyKey, opts := b.presentation(status)
	if len(matches) == 0 {
		b.reply(chatID, t(emptyKey, lang))
		return
	}

	b.replyHTML(chatID, t(prefixKey, lang), nil)
	for _, m := range matches {
		opts.Lang = lang
		opts.Now = b.clock.Now().UTC()
		text, keyboard := BuildMatchCard(m, opts)
		b.replyHTML(chatID, text, keyboard)
	}
}

func (b *Bot) presentation(status model.QueryStatus) (prefixKey, emptyKey string, opts CardOptions) {
	switch status {
	case model.QueryRunning:
		return "prefix_live", "no_live", CardOptions{StreamButton: true}
	case model.QueryPast:
		return "prefix_recent", "no_recent", CardOptions{ShowWinner: true}
	default:
		return "prefix_upcoming", "no_upcoming", CardOptions{ShowTimeUntil: true}
	}
}

func (b *Bot) handleSubscribe(ctx context.Context, chatID int64, tier model.TierGroup) {
	lang := b.language(ctx, chatID)

	if err := b.store.UpsertSubscriber(ctx, chatID, tier); err != nil {
		b.log.Error("upsert subscriber", "chat_id", chatID, "error", err)
		return
	}
	if err := b.store.SetActive(ctx, chatID, true); err != nil {
		b.log.Error("activate subscriber", "chat_id", chatID, "error", err)
	}

	key := "subscribed_top"
	if tier == model.TierAll {
		key = "subscribed_all"
	}
	b.reply(chatID, t(key, lang))
}

func (b *Bot) handleUnsubscribe(ctx context.Context, chatID int64) {
	lang := b.language(ctx, chatID)

	if err := b.store.SetActive(ctx, chatID, false); err != nil {
		b.log.Error("deactivate subscriber", "chat_id", chatID, "error", err)
		return
	}
	b.reply(chatID, t("unsubscribed", lang))
}

func (b *Bot) handleLanguage(ctx context.Context, chatID int64) {
	lang := b.language(ctx, chatID)

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, l := range supportedLanguages {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(l.Label, "lang:"+l.Code),
		))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)

	msg := tgbotapi.NewMessage(chatID, t("choose_language", lang))
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send language menu", "chat_id", chatID, "error", err)
	}
}
