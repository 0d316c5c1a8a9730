package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-gita-bot/internal/domain/model"
	"telegram-gita-bot/internal/domain/ports/adapter"
	"telegram-gita-bot/internal/infra/logging"
	"telegram-gita-bot/internal/infra/metrics"
)

// Compile-time check
var _ ScheduleUseCase = (*scheduleUC)(nil)

// ScheduleUseCase registers a user's daily-delivery preference.
type ScheduleUseCase interface {
	// Reconcile brings the stored preference in line with req and reports
	// exactly one outcome. It never returns an error: store failures are
	// already mapped to sentinels.
	Reconcile(ctx context.Context, req model.ScheduleRequest) model.Outcome
}

// scheduleUC holds no state between calls; every run re-queries the store.
type scheduleUC struct {
	store adapter.PreferenceStore
	log   *zerolog.Logger
	dev   bool
}

func NewScheduleUseCase(store adapter.PreferenceStore, logger *zerolog.Logger, dev bool) *scheduleUC {
	return &scheduleUC{
		store: store,
		log:   logger,
		dev:   dev,
	}
}

// Reconcile runs query, then delete of the existing mode if any, then create.
// Calls are strictly sequential. create is never attempted after a failed
// delete, so a user can never end up with two records. A failed create after
// a successful delete leaves the user with no record and is reported as
// OutcomeCreateFailed without compensation.
func (u *scheduleUC) Reconcile(ctx context.Context, req model.ScheduleRequest) model.Outcome {
	defer logging.TraceDuration(u.log, "ScheduleUC.Reconcile")()

	outcome := u.reconcile(ctx, req)
	metrics.IncReconcileOutcome(outcome.String())

	ev := u.log.Info()
	if !outcome.Success() {
		ev = u.log.Warn()
	}
	ev.Str("username", logging.Redact(req.Username, u.dev)).
		Str("usertype", req.UserType.String()).
		Str("time", req.Time).
		Str("outcome", outcome.String()).
		Msg("daily schedule reconciled")
	return outcome
}

func (u *scheduleUC) reconcile(ctx context.Context, req model.ScheduleRequest) model.Outcome {
	status := u.store.Query(ctx, req.Username)

	switch status {
	case model.StatusNone:
		if !u.store.Create(ctx, req.Preference()) {
			return model.OutcomeCreateFailed
		}
		return model.OutcomeCreated

	case model.StatusRandom, model.StatusSequential:
		existing, _ := status.UserType()
		if !u.store.Delete(ctx, req.Username, existing) {
			return model.OutcomeDeleteFailed
		}
		if !u.store.Create(ctx, req.Preference()) {
			u.log.Error().
				Str("username", logging.Redact(req.Username, u.dev)).
				Str("deleted_usertype", existing.String()).
				Msg("create failed after delete; user has no preference record")
			return model.OutcomeCreateFailed
		}
		return model.OutcomeReplaced

	default:
		return model.OutcomeInternalError
	}
}
