package settler

import (
	"context"
	"log"
	"sync"
	"time"

	"blaze/internal/application/dto"
	portsin "blaze/internal/application/ports/in"
)

type Worker struct {
	enabled      bool
	pollInterval time.Duration
	batchSize    int
	useCase      portsin.SettleTransfersUseCase
	logger       *log.Logger

	// cycleMu keeps a manual Trigger from overlapping a ticker cycle.
	cycleMu sync.Mutex
	trigger chan struct{}
}

func NewWorker(
	enabled bool,
	pollInterval time.Duration,
	batchSize int,
	useCase portsin.SettleTransfersUseCase,
	logger *log.Logger,
) *Worker {
	return &Worker{
		enabled:      enabled,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		useCase:      useCase,
		logger:       logger,
		trigger:      make(chan struct{}, 1),
	}
}

func (w *Worker) Enabled() bool {
	return w != nil && w.enabled
}

// Trigger asks the running worker for an early cycle. Extra triggers while
// one is pending are coalesced.
func (w *Worker) Trigger() {
	if w == nil || !w.enabled {
		return
	}
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *Worker) Start(ctx context.Context) {
	if w == nil || !w.enabled || w.useCase == nil {
		return
	}

	w.logf(
		"transfer settler started poll_interval=%s batch_size=%d",
		w.pollInterval,
		w.batchSize,
	)

	w.RunCycle(ctx)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logf("transfer settler stopped")
			return
		case <-ticker.C:
			w.RunCycle(ctx)
		case <-w.trigger:
			w.RunCycle(ctx)
		}
	}
}

func (w *Worker) RunCycle(ctx context.Context) dto.SettleTransfersOutput {
	w.cycleMu.Lock()
	defer w.cycleMu.Unlock()

	startedAt := time.Now().UTC()
	output, appErr := w.useCase.Execute(ctx, dto.SettleTransfersCommand{
		BatchSize: w.batchSize,
	})
	if appErr != nil {
		w.logf(
			"transfer settle cycle failed code=%s message=%s details=%v",
			appErr.Code,
			appErr.Message,
			appErr.Details,
		)
		return dto.SettleTransfersOutput{}
	}

	if output.BatchesSubmitted == 0 && output.BatchesFailed == 0 {
		return output
	}

	w.logf(
		"transfer settle cycle completed batches_submitted=%d transfers_settled=%d batches_failed=%d latency_ms=%d",
		output.BatchesSubmitted,
		output.TransfersSettled,
		output.BatchesFailed,
		time.Since(startedAt).Milliseconds(),
	)
	return output
}

func (w *Worker) logf(format string, args ...any) {
	if w.logger == nil {
		return
	}
	w.logger.Printf(format, args...)
}
