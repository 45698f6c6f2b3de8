//go:build !integration

package use_cases

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"blaze/internal/application/dto"
	"blaze/internal/domain/clarity"
	"blaze/internal/domain/entities"
	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
)

const (
	testAlice      = "SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7"
	testBob        = "SP3NE50GEXFG9SZGTT51P40X2CKYSZ5CC4ZTZ7A2G"
	testWelshBlaze = "SP2ZNGJ85ENDY6QRHQ5P2D4FXKGZWCKTB2T0Z55KS.blaze-welsh-v0"
)

func testTokenRegistry(t *testing.T) *entities.TokenRegistry {
	t.Helper()
	registry, appErr := entities.NewTokenRegistry(entities.DefaultTokenDefinitions())
	if appErr != nil {
		t.Fatalf("expected default registry, got %+v", appErr)
	}
	return registry
}

func testSwapRoutes(t *testing.T) []entities.SwapRoute {
	t.Helper()
	routes := make([]entities.SwapRoute, 0, 1)
	for _, definition := range entities.DefaultSwapRouteDefinitions() {
		route, appErr := entities.NewSwapRoute(definition)
		if appErr != nil {
			t.Fatalf("expected default swap route, got %+v", appErr)
		}
		routes = append(routes, route)
	}
	return routes
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) NowUTC() time.Time {
	return c.now
}

func sequenceIDs(prefix string) IDGenerator {
	next := 0
	return func() string {
		next++
		return fmt.Sprintf("%s-%d", prefix, next)
	}
}

type readOnlyCall struct {
	contract string
	function string
	sender   string
	args     int
}

type fakeChainReader struct {
	results map[string]clarity.Value
	errs    map[string]*apperrors.AppError
	calls   []readOnlyCall
}

func (f *fakeChainReader) CallReadOnly(
	_ context.Context,
	contract valueobjects.Principal,
	functionName string,
	sender valueobjects.Principal,
	args []clarity.Value,
) (clarity.Value, *apperrors.AppError) {
	f.calls = append(f.calls, readOnlyCall{
		contract: contract.String(),
		function: functionName,
		sender:   sender.String(),
		args:     len(args),
	})
	if appErr, ok := f.errs[functionName]; ok {
		return nil, appErr
	}
	if value, ok := f.results[functionName]; ok {
		return value, nil
	}
	return nil, apperrors.NewUnavailable("read_only_call_failed", "no result configured", nil)
}

type fakeLedger struct {
	mu        sync.Mutex
	balances  map[string]valueobjects.BaseUnits
	nonces    map[string]uint64
	queue     []entities.QueuedTransfer
	settled   map[string]string
	applyErr  *apperrors.AppError
	settleErr *apperrors.AppError
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		balances: make(map[string]valueobjects.BaseUnits),
		nonces:   make(map[string]uint64),
		settled:  make(map[string]string),
	}
}

func ledgerKey(contract, address string) string {
	return contract + ":" + address
}

func (f *fakeLedger) Balance(_ context.Context, contract, address string) (valueobjects.BaseUnits, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[ledgerKey(contract, address)], nil
}

func (f *fakeLedger) Nonce(_ context.Context, contract, address string) (uint64, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nonces[ledgerKey(contract, address)], nil
}

func (f *fakeLedger) Credit(_ context.Context, contract, address string, amount valueobjects.BaseUnits) (valueobjects.BaseUnits, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	next, appErr := f.balances[ledgerKey(contract, address)].Add(amount)
	if appErr != nil {
		return valueobjects.BaseUnits{}, appErr
	}
	f.balances[ledgerKey(contract, address)] = next
	return next, nil
}

func (f *fakeLedger) ApplyTransfer(_ context.Context, transfer entities.QueuedTransfer) (dto.ApplyTransferOutput, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return dto.ApplyTransferOutput{}, f.applyErr
	}

	fromKey := ledgerKey(transfer.Contract, transfer.From)
	toKey := ledgerKey(transfer.Contract, transfer.To)
	if transfer.Nonce <= f.nonces[fromKey] {
		return dto.ApplyTransferOutput{}, apperrors.NewConflict("nonce_replayed", "nonce already used", nil)
	}
	fromBalance, appErr := f.balances[fromKey].Sub(transfer.Amount)
	if appErr != nil {
		return dto.ApplyTransferOutput{}, apperrors.NewValidation("insufficient_balance", "insufficient balance", nil)
	}
	toBalance, _ := f.balances[toKey].Add(transfer.Amount)
	f.balances[fromKey] = fromBalance
	f.balances[toKey] = toBalance
	f.nonces[fromKey] = transfer.Nonce
	f.queue = append(f.queue, transfer)

	length := 0
	for _, queued := range f.queue {
		if queued.Contract == transfer.Contract && queued.Status == entities.TransferStatusQueued {
			length++
		}
	}
	return dto.ApplyTransferOutput{
		FromBalance: fromBalance,
		ToBalance:   toBalance,
		Nonce:       transfer.Nonce,
		QueueLength: length,
	}, nil
}

func (f *fakeLedger) QueueLengths(_ context.Context) (map[string]int, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lengths := make(map[string]int)
	for _, transfer := range f.queue {
		if transfer.Status == entities.TransferStatusQueued {
			lengths[transfer.Contract]++
		}
	}
	return lengths, nil
}

func (f *fakeLedger) ListQueued(_ context.Context, contract string, limit int) ([]entities.QueuedTransfer, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entities.QueuedTransfer, 0, limit)
	for _, transfer := range f.queue {
		if transfer.Contract == contract && transfer.Status == entities.TransferStatusQueued && len(out) < limit {
			out = append(out, transfer)
		}
	}
	return out, nil
}

func (f *fakeLedger) MarkSettled(_ context.Context, ids []string, txID string, settledAt time.Time) *apperrors.AppError {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settleErr != nil {
		return f.settleErr
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	for index := range f.queue {
		if wanted[f.queue[index].ID] {
			f.queue[index].Status = entities.TransferStatusSettled
			settled := settledAt
			f.queue[index].SettledAt = &settled
			f.settled[f.queue[index].ID] = txID
		}
	}
	return nil
}

func (f *fakeLedger) settledIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.settled))
	for id := range f.settled {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type fakeSigner struct {
	result dto.SignContractCallOutput
	err    *apperrors.AppError
	inputs []dto.SignContractCallInput
}

func (f *fakeSigner) SignContractCall(_ context.Context, input dto.SignContractCallInput) (dto.SignContractCallOutput, *apperrors.AppError) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return dto.SignContractCallOutput{}, f.err
	}
	return f.result, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []dto.BalanceEvent
}

func (f *fakePublisher) Publish(_ context.Context, event dto.BalanceEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakePublisher) published() []dto.BalanceEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]dto.BalanceEvent, len(f.events))
	copy(out, f.events)
	return out
}

func mustRegistry() *entities.TokenRegistry {
	registry, appErr := entities.NewTokenRegistry(entities.DefaultTokenDefinitions())
	if appErr != nil {
		panic(appErr)
	}
	return registry
}
