package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper is a periodic maintenance job.
type Sweeper interface {
	// Sweep performs one pass and returns how many items it removed.
	Sweep(ctx context.Context) (int, error)
}

// Scheduler periodically runs a Sweeper.
type Scheduler struct {
	interval time.Duration
	timeout  time.Duration
	job      Sweeper
	log      *zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler constructs a scheduler that runs job.Sweep every interval.
// If interval <= 0 it defaults to 1 minute.
func NewScheduler(interval time.Duration, job Sweeper, logger *zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Scheduler{
		interval: interval,
		timeout:  30 * time.Second,
		job:      job,
		log:      logger,
		done:     make(chan struct{}),
	}
}

// Start begins the loop in a background goroutine. Calling Start twice has no effect.
func (s *Scheduler) Start(parentCtx context.Context) {
	if s.ctx != nil {
		return
	}
	s.ctx, s.cancel = context.WithCancel(parentCtx)
	go s.loop(s.ctx, s.done)
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer func() {
		ticker.Stop()
		close(done)
	}()

	s.log.Info().Dur("interval", s.interval).Msg("[scheduler] started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("[scheduler] context cancelled; stopping")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce runs a single sweep with a bounded timeout.
func (s *Scheduler) RunOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	n, err := s.job.Sweep(runCtx)
	if err != nil {
		s.log.Error().Err(err).Int("removed", n).Msg("[scheduler] sweep failed")
		return
	}
	if n > 0 {
		s.log.Info().Int("removed", n).Msg("[scheduler] sweep done")
	}
}

// Stop cancels the loop and waits for it to finish. It is idempotent.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.ctx = nil
	s.cancel = nil
	s.done = make(chan struct{})
	s.log.Info().Msg("[scheduler] stopped")
}
