package adapter

import (
	"context"

	"telegram-gita-bot/internal/domain/model"
)

// VerseContent retrieves verse text and narration from the content service.
type VerseContent interface {
	GetVerse(ctx context.Context, ref model.VerseRef) (*model.Verse, error)
	// FetchAudio downloads the narration to a local file and returns its path.
	// The caller owns the file and must release it with RemoveAudio.
	FetchAudio(ctx context.Context, ref model.VerseRef) (string, error)
	RemoveAudio(path string) error
}
