package application

import (
	"context"

	"telegram-gita-bot/internal/domain/model"
	"telegram-gita-bot/internal/infra/i18n"
	"telegram-gita-bot/internal/usecase"
)

// ---- minimal surface the facade needs from the use cases ----

type ScheduleUseCaseIface interface {
	Reconcile(ctx context.Context, req model.ScheduleRequest) model.Outcome
}

type VerseUseCaseIface interface {
	Get(ctx context.Context, ref model.VerseRef) (*usecase.VerseResult, error)
}

// Texts renders user-facing messages by key.
type Texts interface {
	T(key string, args ...interface{}) string
}

var (
	_ ScheduleUseCaseIface = (usecase.ScheduleUseCase)(nil)
	_ VerseUseCaseIface    = (usecase.VerseUseCase)(nil)
	_ Texts                = (*i18n.Translator)(nil)
)
