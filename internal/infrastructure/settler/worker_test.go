//go:build !integration

package settler

import (
	"context"
	"sync"
	"testing"
	"time"

	"blaze/internal/application/dto"
	apperrors "blaze/internal/shared_kernel/errors"
)

func TestWorkerDisabled(t *testing.T) {
	fakeUseCase := &fakeSettleUseCase{}
	worker := NewWorker(false, 10*time.Millisecond, 1, fakeUseCase, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	worker.Start(ctx)
	worker.Trigger()

	if fakeUseCase.calls() != 0 {
		t.Fatalf("expected no calls for disabled worker, got %d", fakeUseCase.calls())
	}
	if worker.Enabled() {
		t.Fatalf("expected worker to report disabled")
	}
}

func TestWorkerRunsCycle(t *testing.T) {
	fakeUseCase := &fakeSettleUseCase{}
	worker := NewWorker(true, 10*time.Millisecond, 3, fakeUseCase, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	worker.Start(ctx)

	if fakeUseCase.calls() == 0 {
		t.Fatalf("expected at least one cycle call")
	}
	if last := fakeUseCase.lastCommand(); last.BatchSize != 3 {
		t.Fatalf("expected batch size 3, got %d", last.BatchSize)
	}
}

func TestWorkerTriggerRunsEarlyCycle(t *testing.T) {
	fakeUseCase := &fakeSettleUseCase{}
	worker := NewWorker(true, time.Hour, 1, fakeUseCase, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for fakeUseCase.calls() < 1 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	worker.Trigger()
	for fakeUseCase.calls() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done

	if fakeUseCase.calls() < 2 {
		t.Fatalf("expected triggered cycle, got %d calls", fakeUseCase.calls())
	}
}

func TestRunCycleSwallowsUseCaseError(t *testing.T) {
	fakeUseCase := &fakeSettleUseCase{
		err: apperrors.NewInternal("ledger_unavailable", "ledger unavailable", nil),
	}
	worker := NewWorker(true, time.Hour, 1, fakeUseCase, nil)

	output := worker.RunCycle(context.Background())
	if output.BatchesSubmitted != 0 {
		t.Fatalf("expected empty output on error, got %+v", output)
	}
}

type fakeSettleUseCase struct {
	mu        sync.Mutex
	callCount int
	last      dto.SettleTransfersCommand
	err       *apperrors.AppError
}

func (f *fakeSettleUseCase) Execute(_ context.Context, command dto.SettleTransfersCommand) (dto.SettleTransfersOutput, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callCount++
	f.last = command
	if f.err != nil {
		return dto.SettleTransfersOutput{}, f.err
	}
	return dto.SettleTransfersOutput{BatchesSubmitted: 1, TransfersSettled: command.BatchSize}, nil
}

func (f *fakeSettleUseCase) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callCount
}

func (f *fakeSettleUseCase) lastCommand() dto.SettleTransfersCommand {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}
