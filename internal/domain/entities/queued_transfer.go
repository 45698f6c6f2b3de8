package entities

import (
	"strings"
	"time"

	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
)

type TransferStatus string

const (
	TransferStatusQueued  TransferStatus = "queued"
	TransferStatusSettled TransferStatus = "settled"
)

// QueuedTransfer is a signed off-chain transfer awaiting batch settlement.
type QueuedTransfer struct {
	ID        string
	Token     string
	Contract  string
	From      string
	To        string
	Amount    valueobjects.BaseUnits
	Nonce     uint64
	Signature string
	Status    TransferStatus
	TxID      *string
	CreatedAt time.Time
	SettledAt *time.Time
}

type NewQueuedTransferInput struct {
	ID        string
	Token     string
	Contract  string
	From      string
	To        string
	Amount    valueobjects.BaseUnits
	Nonce     uint64
	Signature string
	CreatedAt time.Time
}

func NewQueuedTransfer(input NewQueuedTransferInput) (QueuedTransfer, *apperrors.AppError) {
	if input.ID == "" {
		return QueuedTransfer{}, apperrors.NewInternal(
			"queued_transfer_id_missing",
			"queued transfer id is required",
			nil,
		)
	}
	if input.Contract == "" || input.Token == "" {
		return QueuedTransfer{}, apperrors.NewInternal(
			"queued_transfer_contract_missing",
			"queued transfer token and contract are required",
			nil,
		)
	}
	if input.Amount.IsZero() {
		return QueuedTransfer{}, apperrors.NewValidation(
			"amount_zero",
			"amount must be greater than zero",
			map[string]any{"field": "amount"},
		)
	}
	if strings.TrimSpace(input.Signature) == "" {
		return QueuedTransfer{}, apperrors.NewValidation(
			"invalid_signature",
			"signature is required",
			map[string]any{"field": "signature"},
		)
	}

	return QueuedTransfer{
		ID:        input.ID,
		Token:     input.Token,
		Contract:  input.Contract,
		From:      input.From,
		To:        input.To,
		Amount:    input.Amount,
		Nonce:     input.Nonce,
		Signature: strings.TrimPrefix(strings.TrimSpace(input.Signature), "0x"),
		Status:    TransferStatusQueued,
		CreatedAt: input.CreatedAt.UTC(),
	}, nil
}
