package adapter

import (
	"context"

	"telegram-gita-bot/internal/domain/model"
)

// PreferenceStore is the remote user-preference service. Implementations make
// exactly one round trip per call and absorb every transport fault: failures
// surface only as StatusQueryFailed or false, never as errors.
type PreferenceStore interface {
	Query(ctx context.Context, username string) model.PreferenceStatus
	Create(ctx context.Context, pref model.UserPreference) bool
	Delete(ctx context.Context, username string, usertype model.UserType) bool
}
