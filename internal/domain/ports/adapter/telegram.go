package adapter

import "context"

// SendMessageParams describes one outgoing text message.
type SendMessageParams struct {
	ChatID    int64
	Text      string
	ParseMode string // "", "Markdown"
}

type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, params SendMessageParams) error
	SendAudio(ctx context.Context, chatID int64, path, caption string) error
}
