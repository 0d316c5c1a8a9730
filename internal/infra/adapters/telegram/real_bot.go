package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-gita-bot/internal/config"
	"telegram-gita-bot/internal/domain/ports/adapter"
	"telegram-gita-bot/internal/infra/metrics"
	"telegram-gita-bot/internal/infra/worker"
)

// MaxMessageLength is Telegram's limit for one text message.
const MaxMessageLength = 4096

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// botAPI is the subset of *tgbotapi.BotAPI the adapter uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// RealTelegramBotAdapter uses tgbotapi to poll updates and deliver replies.
type RealTelegramBotAdapter struct {
	api botAPI
	log *zerolog.Logger
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	a := newRealTelegramBotAdapter(bot, logger)
	a.log.Info().Str("bot", bot.Self.UserName).Msg("telegram bot authorized")
	return a, nil
}

func newRealTelegramBotAdapter(api botAPI, logger *zerolog.Logger) *RealTelegramBotAdapter {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &RealTelegramBotAdapter{api: api, log: logger}
}

// StartPolling long-polls updates and hands each one to the pool until ctx is done.
func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context, pool *worker.Pool, d *Dispatcher) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.api.GetUpdatesChan(u)
	defer r.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case up, ok := <-updates:
			if !ok {
				return nil
			}
			err := pool.Submit(ctx, func(ctx context.Context) error {
				return d.HandleUpdate(ctx, up)
			})
			if err != nil {
				metrics.IncUpdateDropped()
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.log.Warn().Err(err).Int("update_id", up.UpdateID).Msg("update dropped")
			}
		}
	}
}

// SendMessage sends params.Text, split into chunks of at most MaxMessageLength
// runes. Formatting is only applied to single-chunk messages; a formatted
// message Telegram rejects is resent as plain text.
func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, params adapter.SendMessageParams) error {
	chunks := splitMessage(params.Text, MaxMessageLength)
	parseMode := params.ParseMode
	if len(chunks) > 1 {
		parseMode = ""
	}
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(params.ChatID, chunk)
		msg.ParseMode = parseMode
		_, err := r.api.Send(msg)
		if err != nil && parseMode != "" {
			r.log.Debug().Err(err).Msg("formatted send rejected; retrying as plain text")
			msg.ParseMode = ""
			_, err = r.api.Send(msg)
		}
		if err != nil {
			metrics.IncTelegramSendError("message")
			return err
		}
	}
	return nil
}

// SendAudio uploads the local file at path as an audio message.
func (r *RealTelegramBotAdapter) SendAudio(ctx context.Context, chatID int64, path, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path))
	audio.Caption = caption
	if _, err := r.api.Send(audio); err != nil {
		metrics.IncTelegramSendError("audio")
		return err
	}
	return nil
}

// splitMessage cuts text into chunks of at most limit runes, preferring to
// break after a newline in the second half of a chunk.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return []string{text}
	}
	var parts []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
