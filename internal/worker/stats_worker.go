package worker

import (
	"context"

	"go.uber.org/zap"

	"vote-board/internal/metrics"
)

type VoteEvent struct {
	PollID   string
	OptionID string
	Changed  bool
}

// StatsWorker drains vote events off the hot path, feeding the vote counter
// and the audit log.
type StatsWorker struct {
	Ch  <-chan VoteEvent
	log *zap.SugaredLogger
}

func NewStatsWorker(ch <-chan VoteEvent, log *zap.SugaredLogger) *StatsWorker {
	return &StatsWorker{Ch: ch, log: log}
}

func (w *StatsWorker) Run(ctx context.Context) {
	w.log.Info("stats worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info("stats worker stopped")
			return
		case ev := <-w.Ch:
			metrics.IncVoteCast()
			w.log.Infow("vote cast",
				"poll", ev.PollID,
				"option", ev.OptionID,
				"changed", ev.Changed,
			)
		}
	}
}
