//go:build !integration

package state

import (
	"context"
	"sync"
	"testing"
	"time"

	"blaze/internal/application/dto"
	"blaze/internal/domain/entities"
	valueobjects "blaze/internal/domain/value_objects"
)

const (
	welshBlaze = "SP2ZNGJ85ENDY6QRHQ5P2D4FXKGZWCKTB2T0Z55KS.blaze-welsh-v0"
	alice      = "SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7"
	bob        = "SP3NE50GEXFG9SZGTT51P40X2CKYSZ5CC4ZTZ7A2G"
)

func TestStoreAppliesTransferEvents(t *testing.T) {
	store := NewStore(valueobjects.NetworkMainnet)
	credit := valueobjects.BaseUnitsFromUint64(500)
	store.ReconcileBalances(alice, map[string]entities.BalanceSnapshot{
		welshBlaze: {TokenContract: welshBlaze, Total: valueobjects.BaseUnitsFromUint64(10), Credit: &credit},
	})

	nonce := uint64(4)
	store.ApplyEvent(dto.BalanceEvent{
		Type:     dto.BalanceEventTransfer,
		Contract: welshBlaze,
		From:     alice,
		To:       bob,
		Amount:   valueobjects.BaseUnitsFromUint64(200),
		Nonce:    &nonce,
	})

	from, _ := store.Balance(alice, welshBlaze)
	if from.Credit == nil || from.Credit.String() != "300" {
		t.Fatalf("expected sender credit 300, got %+v", from.Credit)
	}
	if from.Nonce == nil || *from.Nonce != 4 {
		t.Fatalf("expected sender nonce 4, got %+v", from.Nonce)
	}
	if from.Total.String() != "10" {
		t.Fatalf("expected total to stay 10, got %s", from.Total)
	}

	to, ok := store.Balance(bob, welshBlaze)
	if !ok || to.Credit == nil || to.Credit.String() != "200" {
		t.Fatalf("expected recipient credit 200, got %+v", to)
	}
}

func TestStoreDepositWithdrawAndFaucet(t *testing.T) {
	store := NewStore(valueobjects.NetworkMainnet)

	store.ApplyEvent(dto.BalanceEvent{Type: dto.BalanceEventDeposit, Contract: welshBlaze, Address: alice, Amount: valueobjects.BaseUnitsFromUint64(70)})
	store.ApplyEvent(dto.BalanceEvent{Type: dto.BalanceEventWithdraw, Contract: welshBlaze, Address: alice, Amount: valueobjects.BaseUnitsFromUint64(100)})
	store.ApplyEvent(dto.BalanceEvent{Type: dto.BalanceEventDeposit, Action: "faucet", Contract: welshBlaze, Address: alice, Amount: valueobjects.BaseUnitsFromUint64(1000)})

	snapshot, _ := store.Balance(alice, welshBlaze)
	if !snapshot.Total.IsZero() {
		t.Fatalf("expected withdrawal to saturate total at zero, got %s", snapshot.Total)
	}
	if snapshot.Credit == nil || snapshot.Credit.String() != "1000" {
		t.Fatalf("expected faucet credit 1000, got %+v", snapshot.Credit)
	}
}

func TestStoreBalancesReturnsCopy(t *testing.T) {
	store := NewStore(valueobjects.NetworkMainnet)
	store.ReconcileBalances(alice, map[string]entities.BalanceSnapshot{welshBlaze: {TokenContract: welshBlaze}})

	copied := store.Balances(alice)
	delete(copied, welshBlaze)

	if _, ok := store.Balance(alice, welshBlaze); !ok {
		t.Fatalf("expected store to be unaffected by caller mutation")
	}
}

func TestStoreSwapSettingsValidation(t *testing.T) {
	store := NewStore(valueobjects.NetworkTestnet)
	if store.SwapSettings().SlippageBps != DefaultSlippageBps {
		t.Fatalf("expected default slippage, got %d", store.SwapSettings().SlippageBps)
	}
	if appErr := store.SetSwapSettings(SwapSettings{SlippageBps: 10000}); appErr == nil || appErr.Code != "invalid_slippage" {
		t.Fatalf("expected invalid_slippage, got %+v", appErr)
	}
	if appErr := store.SetSwapSettings(SwapSettings{SlippageBps: 100}); appErr != nil {
		t.Fatalf("expected valid slippage, got %+v", appErr)
	}
	if store.SwapSettings().SlippageBps != 100 {
		t.Fatalf("expected slippage 100, got %d", store.SwapSettings().SlippageBps)
	}
	if store.Session().Network != valueobjects.NetworkTestnet {
		t.Fatalf("expected testnet session, got %s", store.Session().Network)
	}
}

func TestStoreConsumeStopsOnClose(t *testing.T) {
	store := NewStore(valueobjects.NetworkMainnet)
	events := make(chan dto.BalanceEvent, 1)
	events <- dto.BalanceEvent{Type: dto.BalanceEventDeposit, Contract: welshBlaze, Address: alice, Amount: valueobjects.BaseUnitsFromUint64(5)}
	close(events)

	done := make(chan struct{})
	go func() {
		store.Consume(context.Background(), events)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected consume to return after channel close")
	}

	snapshot, _ := store.Balance(alice, welshBlaze)
	if snapshot.Total.String() != "5" {
		t.Fatalf("expected total 5, got %s", snapshot.Total)
	}
}

func TestStoreConcurrentWriters(t *testing.T) {
	store := NewStore(valueobjects.NetworkMainnet)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.ApplyEvent(dto.BalanceEvent{Type: dto.BalanceEventDeposit, Contract: welshBlaze, Address: alice, Amount: valueobjects.BaseUnitsFromUint64(1)})
			_ = store.Balances(alice)
		}()
	}
	wg.Wait()

	snapshot, _ := store.Balance(alice, welshBlaze)
	if snapshot.Total.String() != "50" {
		t.Fatalf("expected total 50, got %s", snapshot.Total)
	}
}
