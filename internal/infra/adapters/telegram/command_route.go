package telegram

import (
	"context"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-gita-bot/internal/application"
	"telegram-gita-bot/internal/domain/ports/adapter"
	"telegram-gita-bot/internal/infra/logging"
	"telegram-gita-bot/internal/infra/metrics"
	red "telegram-gita-bot/internal/infra/redis"
)

// RateLimiter caps commands per key within a window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

var _ RateLimiter = (*red.RateLimiter)(nil)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// Dispatcher routes bot commands to the facade and delivers the replies
// through a TelegramBotAdapter.
type Dispatcher struct {
	facade    *application.BotFacade
	sender    adapter.TelegramBotAdapter
	limiter   RateLimiter
	rateLimit int
	log       *zerolog.Logger
}

// NewDispatcher wires the command routes. limiter may be nil; rateLimit is
// commands per user per command per minute, 0 disables limiting.
func NewDispatcher(facade *application.BotFacade, sender adapter.TelegramBotAdapter, limiter RateLimiter, rateLimit int, logger *zerolog.Logger) *Dispatcher {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Dispatcher{
		facade:    facade,
		sender:    sender,
		limiter:   limiter,
		rateLimit: rateLimit,
		log:       logger,
	}
}

// commandRoutes defines all available bot commands and their handlers.
func (d *Dispatcher) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start": d.handleStartCommand,
		"help":  d.handleHelpCommand,
		"verse": d.handleVerseCommand,
		"daily": d.handleDailyCommand,
	}
}

// HandleUpdate answers one update. Non-command messages are ignored.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil || !msg.IsCommand() {
		return nil
	}
	command := strings.ToLower(msg.Command())

	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithTgID(ctx, msg.From.ID)
	ctx = logging.WithCommand(ctx, command)
	log := logging.With(ctx, d.log)

	handler, ok := d.commandRoutes()[command]
	if !ok {
		metrics.IncTelegramCommand("unknown")
		return d.reply(ctx, msg.Chat.ID, d.facade.Texts().T("error_unknown_command"))
	}
	metrics.IncTelegramCommand("/" + command)

	if d.limiter != nil && d.rateLimit > 0 {
		allowed, err := d.limiter.Allow(ctx, red.UserCommandKey(msg.From.ID, command), d.rateLimit, time.Minute)
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter unavailable")
		} else if !allowed {
			metrics.IncRateLimitTriggered()
			return d.reply(ctx, msg.Chat.ID, d.facade.Texts().T("error_rate_limited"))
		}
	}

	log.Debug().Msg("command received")
	if err := handler(ctx, msg); err != nil {
		log.Error().Err(err).Msg("command failed")
		return err
	}
	return nil
}

func (d *Dispatcher) reply(ctx context.Context, chatID int64, text string) error {
	return d.sender.SendMessage(ctx, adapter.SendMessageParams{ChatID: chatID, Text: text})
}

func (d *Dispatcher) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	return d.reply(ctx, message.Chat.ID, d.facade.HandleStart(ctx))
}

func (d *Dispatcher) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) error {
	return d.reply(ctx, message.Chat.ID, d.facade.HandleHelp(ctx))
}

// handleDailyCommand handles "/daily <order> <time>".
func (d *Dispatcher) handleDailyCommand(ctx context.Context, message *tgbotapi.Message) error {
	args := strings.Fields(message.CommandArguments())
	if message.From != nil && message.From.UserName != "" {
		logging.With(ctx, d.log).Debug().Str("handle", message.From.UserName).Msg("daily request")
	}
	text := d.facade.HandleDaily(ctx, preferenceKey(message.From), message.Chat.ID, args)
	return d.reply(ctx, message.Chat.ID, text)
}

// handleVerseCommand sends the verse text, then its narration or a notice
// that none is available. The narration file is released either way.
func (d *Dispatcher) handleVerseCommand(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	reply := d.facade.HandleVerse(ctx, strings.Fields(message.CommandArguments()))
	defer reply.Release()

	params := adapter.SendMessageParams{ChatID: chatID, Text: reply.Text}
	if reply.Markdown {
		params.ParseMode = tgbotapi.ModeMarkdown
	}
	if err := d.sender.SendMessage(ctx, params); err != nil {
		return err
	}
	if !reply.Audio {
		return nil
	}
	if reply.AudioPath == "" {
		return d.reply(ctx, chatID, reply.AudioMissing)
	}
	return d.sender.SendAudio(ctx, chatID, reply.AudioPath, reply.AudioCaption)
}

// preferenceKey is the username sent to the preference service: the numeric
// Telegram id. The @handle can be changed or dropped by the user and is
// never used as a key.
func preferenceKey(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	return strconv.FormatInt(u.ID, 10)
}

// NewCommandUpdate builds the update Telegram would deliver for a typed command.
func NewCommandUpdate(chatID int64, user *tgbotapi.User, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		From: user,
		Chat: &tgbotapi.Chat{ID: chatID, Type: "private"},
		Date: int(time.Now().Unix()),
		Text: text,
	}
	if strings.HasPrefix(text, "/") {
		n := strings.IndexAny(text, " \t\n")
		if n < 0 {
			n = len(text)
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: n}}
	}
	return tgbotapi.Update{Message: msg}
}
