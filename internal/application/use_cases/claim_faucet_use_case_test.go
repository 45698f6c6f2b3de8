//go:build !integration

package use_cases

import (
	"context"
	"testing"
	"time"

	"blaze/internal/application/dto"
	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
)

func TestClaimFaucetCreditsLedger(t *testing.T) {
	ledger := newFakeLedger()
	ledger.balances[ledgerKey(testWelshBlaze, testAlice)] = valueobjects.BaseUnitsFromUint64(5)
	publisher := &fakePublisher{}
	useCase := NewClaimFaucetUseCase(
		FaucetConfig{Enabled: true, Token: "WELSH", Amount: "1000"},
		mustRegistry(),
		ledger,
		publisher,
		fixedClock{now: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	)

	output, appErr := useCase.Execute(context.Background(), dto.FaucetCommand{Address: testAlice})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if output.NewBalance.String() != "1000000005" {
		t.Fatalf("expected new balance 1000000005, got %s", output.NewBalance)
	}

	events := publisher.published()
	if len(events) != 1 || events[0].Type != dto.BalanceEventDeposit || events[0].Action != "faucet" || events[0].Amount.String() != "1000000000" {
		t.Fatalf("expected a faucet deposit event, got %+v", events)
	}
}

func TestClaimFaucetDisabled(t *testing.T) {
	useCase := NewClaimFaucetUseCase(FaucetConfig{Token: "WELSH", Amount: "1000"}, mustRegistry(), newFakeLedger(), nil, nil)

	_, appErr := useCase.Execute(context.Background(), dto.FaucetCommand{Address: testAlice})
	if appErr == nil || appErr.Type != apperrors.TypeNotFound || appErr.Code != "faucet_disabled" {
		t.Fatalf("expected faucet_disabled, got %+v", appErr)
	}
}

func TestClaimFaucetRejectsBadAddress(t *testing.T) {
	useCase := NewClaimFaucetUseCase(FaucetConfig{Enabled: true, Token: "WELSH", Amount: "1000"}, mustRegistry(), newFakeLedger(), nil, nil)

	_, appErr := useCase.Execute(context.Background(), dto.FaucetCommand{Address: "SPNOPE"})
	if appErr == nil || appErr.Type != apperrors.TypeValidation {
		t.Fatalf("expected validation error, got %+v", appErr)
	}
}
