package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"telegram-gita-bot/internal/domain/model"
	"telegram-gita-bot/internal/domain/ports/adapter"
	"telegram-gita-bot/internal/infra/logging"
)

var _ VerseUseCase = (*verseUC)(nil)

// VerseResult carries a verse and, when available, a local narration file.
// Release must be called once the audio has been sent (or skipped).
type VerseResult struct {
	Ref       model.VerseRef
	Verse     *model.Verse
	AudioPath string

	release func()
}

func (r *VerseResult) Release() {
	if r != nil && r.release != nil {
		r.release()
		r.release = nil
	}
}

type VerseUseCase interface {
	Get(ctx context.Context, ref model.VerseRef) (*VerseResult, error)
}

type verseUC struct {
	content adapter.VerseContent
	log     *zerolog.Logger
}

func NewVerseUseCase(content adapter.VerseContent, logger *zerolog.Logger) *verseUC {
	return &verseUC{content: content, log: logger}
}

// Get fetches the verse text (required) and its narration (best effort).
func (u *verseUC) Get(ctx context.Context, ref model.VerseRef) (*VerseResult, error) {
	defer logging.TraceDuration(u.log, "VerseUC.Get")()

	if err := ref.Validate(); err != nil {
		return nil, err
	}
	v, err := u.content.GetVerse(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("get verse %s: %w", ref, err)
	}
	res := &VerseResult{Ref: ref, Verse: v}

	path, err := u.content.FetchAudio(ctx, ref)
	if err != nil {
		u.log.Warn().Err(err).Str("verse", ref.String()).Msg("audio narration unavailable")
		return res, nil
	}
	res.AudioPath = path
	res.release = func() {
		if err := u.content.RemoveAudio(path); err != nil {
			u.log.Warn().Err(err).Str("path", path).Msg("failed to remove audio file")
		}
	}
	return res, nil
}
