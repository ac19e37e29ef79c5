package outbox

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type Scheduler struct {
	dispatcher *Dispatcher
	interval   time.Duration
}

func NewScheduler(d *Dispatcher, intervalSec int) *Scheduler {
	if intervalSec <= 0 {
		intervalSec = 5
	}
	return &Scheduler{
		dispatcher: d,
		interval:   time.Duration(intervalSec) * time.Second,
	}
}

// Start runs the dispatcher on every tick until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("outbox scheduler stopped")
				return
			case <-ticker.C:
				n, err := s.dispatcher.DispatchOnce(ctx)
				if err != nil {
					log.Error().Err(err).Msg("outbox dispatch error")
				} else if n > 0 {
					log.Info().Int("processed", n).Msg("outbox dispatch")
				}
			}
		}
	}()
}
