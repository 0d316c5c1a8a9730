package telegram

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-gita-bot/internal/domain/ports/adapter"
)

var _ adapter.TelegramBotAdapter = (*NoopBotAdapter)(nil)

// NoopBotAdapter implements adapter.TelegramBotAdapter for local/dev testing.
// It logs messages instead of sending real Telegram messages.
type NoopBotAdapter struct {
	log *zerolog.Logger
	out io.Writer
}

// NewNoopBotAdapter constructs the noop adapter. Replies are also written
// to out when it is non-nil.
func NewNoopBotAdapter(logger *zerolog.Logger, out io.Writer) *NoopBotAdapter {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &NoopBotAdapter{log: logger, out: out}
}

func (b *NoopBotAdapter) SendMessage(ctx context.Context, params adapter.SendMessageParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.log.Info().Int64("chat_id", params.ChatID).Str("parse_mode", params.ParseMode).Int("len", len(params.Text)).Msg("[noop-telegram] message")
	if b.out != nil {
		_, _ = io.WriteString(b.out, params.Text+"\n")
	}
	return nil
}

func (b *NoopBotAdapter) SendAudio(ctx context.Context, chatID int64, path, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.log.Info().Int64("chat_id", chatID).Str("path", path).Msg("[noop-telegram] audio")
	if b.out != nil {
		_, _ = io.WriteString(b.out, "[audio "+path+"] "+caption+"\n")
	}
	return nil
}

// RunConsole reads one command per line from in and dispatches it as if the
// given user had typed it in a private chat. It returns when in is exhausted
// or ctx is done.
func RunConsole(ctx context.Context, in io.Reader, chatID int64, user *tgbotapi.User, d *Dispatcher) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		up := NewCommandUpdate(chatID, user, line)
		up.UpdateID = int(time.Now().UnixNano() % 1e9)
		if err := d.HandleUpdate(ctx, up); err != nil {
			d.log.Warn().Err(err).Msg("console command failed")
		}
	}
	return sc.Err()
}
