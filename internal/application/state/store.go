package state

import (
	"context"
	"strings"
	"sync"

	"blaze/internal/application/dto"
	"blaze/internal/domain/entities"
	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
)

const DefaultSlippageBps int64 = 50

type Session struct {
	Address string
	Network valueobjects.Network
}

type SwapSettings struct {
	SlippageBps int64
}

// Store is the process-wide view of balances, the operator session and swap settings.
// Writers are last-write-wins; readers get copies.
type Store struct {
	mu       sync.RWMutex
	balances map[string]map[string]entities.BalanceSnapshot
	session  Session
	swap     SwapSettings
}

func NewStore(network valueobjects.Network) *Store {
	return &Store{
		balances: make(map[string]map[string]entities.BalanceSnapshot),
		session:  Session{Network: network},
		swap:     SwapSettings{SlippageBps: DefaultSlippageBps},
	}
}

// Balances returns the snapshots of address keyed by token contract.
func (s *Store) Balances(address string) map[string]entities.BalanceSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.balances[address]
	out := make(map[string]entities.BalanceSnapshot, len(current))
	for contract, snapshot := range current {
		out[contract] = snapshot
	}
	return out
}

func (s *Store) Balance(address, contract string) (entities.BalanceSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.balances[address][contract]
	return snapshot, ok
}

// ReconcileBalances replaces the snapshots of address with values read from chain and ledger.
func (s *Store) ReconcileBalances(address string, snapshots map[string]entities.BalanceSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]entities.BalanceSnapshot, len(snapshots))
	for contract, snapshot := range snapshots {
		next[contract] = snapshot
	}
	s.balances[address] = next
}

// ApplyEvent patches balances optimistically. Deposits and withdrawals move the subnet
// total; transfers and faucet credits move ledger credit.
func (s *Store) ApplyEvent(event dto.BalanceEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch event.Type {
	case dto.BalanceEventDeposit:
		if event.Action == "faucet" {
			s.adjustCredit(event.Address, event.Contract, event.Amount, true)
			return
		}
		s.adjustTotal(event.Address, event.Contract, event.Amount, true)
	case dto.BalanceEventWithdraw:
		s.adjustTotal(event.Address, event.Contract, event.Amount, false)
	case dto.BalanceEventTransfer:
		s.adjustCredit(event.From, event.Contract, event.Amount, false)
		s.adjustCredit(event.To, event.Contract, event.Amount, true)
		if event.Nonce != nil && event.From != "" {
			snapshot := s.snapshotLocked(event.From, event.Contract)
			nonce := *event.Nonce
			snapshot.Nonce = &nonce
			s.balances[event.From][event.Contract] = snapshot
		}
	}
}

// Consume applies events until ctx is done or events is closed.
func (s *Store) Consume(ctx context.Context, events <-chan dto.BalanceEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.ApplyEvent(event)
		}
	}
}

func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *Store) SetSessionAddress(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Address = strings.TrimSpace(address)
}

func (s *Store) SwapSettings() SwapSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.swap
}

func (s *Store) SetSwapSettings(settings SwapSettings) *apperrors.AppError {
	if settings.SlippageBps < 0 || settings.SlippageBps >= 10000 {
		return apperrors.NewValidation(
			"invalid_slippage",
			"slippage must be between 0 and 9999 basis points",
			map[string]any{"slippageBps": settings.SlippageBps},
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.swap = settings
	return nil
}

func (s *Store) snapshotLocked(address, contract string) entities.BalanceSnapshot {
	if s.balances[address] == nil {
		s.balances[address] = make(map[string]entities.BalanceSnapshot)
	}
	snapshot, ok := s.balances[address][contract]
	if !ok {
		snapshot = entities.BalanceSnapshot{TokenContract: contract}
	}
	return snapshot
}

func (s *Store) adjustTotal(address, contract string, amount valueobjects.BaseUnits, increase bool) {
	if address == "" {
		return
	}
	snapshot := s.snapshotLocked(address, contract)
	snapshot.Total = shift(snapshot.Total, amount, increase)
	s.balances[address][contract] = snapshot
}

func (s *Store) adjustCredit(address, contract string, amount valueobjects.BaseUnits, increase bool) {
	if address == "" {
		return
	}
	snapshot := s.snapshotLocked(address, contract)
	var current valueobjects.BaseUnits
	if snapshot.Credit != nil {
		current = *snapshot.Credit
	}
	next := shift(current, amount, increase)
	snapshot.Credit = &next
	s.balances[address][contract] = snapshot
}

// shift saturates at zero and at the uint128 ceiling.
func shift(current, amount valueobjects.BaseUnits, increase bool) valueobjects.BaseUnits {
	if increase {
		next, appErr := current.Add(amount)
		if appErr != nil {
			return current
		}
		return next
	}
	next, appErr := current.Sub(amount)
	if appErr != nil {
		return valueobjects.BaseUnits{}
	}
	return next
}
