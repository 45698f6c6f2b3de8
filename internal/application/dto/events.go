package dto

import (
	"time"

	valueobjects "blaze/internal/domain/value_objects"
)

type BalanceEventType string

const (
	BalanceEventDeposit  BalanceEventType = "blazeDeposit"
	BalanceEventWithdraw BalanceEventType = "blazeWithdraw"
	BalanceEventTransfer BalanceEventType = "blazeTransfer"
)

// BalanceEvent is an optimistic balance change announced before the chain reflects it.
type BalanceEvent struct {
	Type     BalanceEventType       `json:"type"`
	Action   string                 `json:"action,omitempty"`
	Contract string                 `json:"contract"`
	Address  string                 `json:"address,omitempty"`
	From     string                 `json:"from,omitempty"`
	To       string                 `json:"to,omitempty"`
	Amount   valueobjects.BaseUnits `json:"amount"`
	Nonce    *uint64                `json:"nonce,omitempty"`
	TxID     string                 `json:"txId,omitempty"`
	At       time.Time              `json:"at"`
}
