// Package bot implements the Telegram command surface and the alert
// delivery channel.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"

	"matchbot/internal/model"
	"matchbot/internal/query"
	"matchbot/internal/storage"
)

// matchesPerReply caps how many match cards one command sends.
const matchesPerReply = 8

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot handles user commands and delivers match notifications.
type Bot struct {
	api    telegramAPI
	store  storage.Storage
	engine *query.Engine
	clock  clockwork.Clock
	log    *slog.Logger
}

// New creates a Bot with the given Telegram token.
func New(token string, store storage.Storage, engine *query.Engine, clock clockwork.Clock, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:    api,
		store:  store,
		engine: engine,
		clock:  clock,
		log:    log,
	}, nil
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	b.registerCommands()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.CallbackQuery != nil {
				b.handleCallback(ctx, update.CallbackQuery)
				continue
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(ctx, update.Message)
		}
	}
}

func (b *Bot) registerCommands() {
	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Start the bot"},
		tgbotapi.BotCommand{Command: "next", Description: "Upcoming matches"},
		tgbotapi.BotCommand{Command: "live", Description: "Live matches"},
		tgbotapi.BotCommand{Command: "recent", Description: "Recent results"},
		tgbotapi.BotCommand{Command: "subscribe", Description: "Notifications for top-tier tournaments"},
		tgbotapi.BotCommand{Command: "subscribe_all", Description: "Notifications for all tournaments"},
		tgbotapi.BotCommand{Command: "unsubscribe", Description: "Stop notifications"},
		tgbotapi.BotCommand{Command: "language", Description: "Change language"},
	)
	if _, err := b.api.Request(cmds); err != nil {
		b.log.Error("register bot commands", "error", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	chatID := msg.Chat.ID

	b.log.Debug("command", "cmd", cmd, "chat_id", chatID)

	switch cmd {
	case "start":
		b.handleStart(ctx, chatID)
	case "help":
		b.handleHelp(ctx, chatID)
	case "next":
		b.handleMatches(ctx, chatID, model.QueryUpcoming)
	case "live":
		b.handleMatches(ctx, chatID, model.QueryRunning)
	case "recent":
		b.handleMatches(ctx, chatID, model.QueryPast)
	case "subscribe":
		b.handleSubscribe(ctx, chatID, model.TierTop)
	case "subscribe_all":
		b.handleSubscribe(ctx, chatID, model.TierAll)
	case "unsubscribe":
		b.handleUnsubscribe(ctx, chatID)
	case "language":
		b.handleLanguage(ctx, chatID)
	default:
		lang := b.language(ctx, chatID)
		b.reply(chatID, t("help", lang))
	}
}

// reply sends a plain text message to the given chat.
func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}

// replyHTML sends an HTML-formatted message, optionally with an inline
// keyboard.
func (b *Bot) replyHTML(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}

// language resolves the chat's preferred language, tolerating storage
// errors by falling back to the default.
func (b *Bot) language(ctx context.Context, chatID int64) string {
	lang, err := b.store.GetLanguage(ctx, chatID)
	if err != nil {
		b.log.Error("get language", "chat_id", chatID, "error", err)
		return model.DefaultLanguage
	}
	return lang
}
