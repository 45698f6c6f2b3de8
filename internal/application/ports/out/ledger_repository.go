package out

import (
	"context"
	"time"

	"blaze/internal/application/dto"
	"blaze/internal/domain/entities"
	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
)

// LedgerRepository holds off-chain credit balances and nonces per (contract, address)
// and the per-contract queue of signed transfers awaiting settlement.
type LedgerRepository interface {
	Balance(ctx context.Context, contract, address string) (valueobjects.BaseUnits, *apperrors.AppError)
	Nonce(ctx context.Context, contract, address string) (uint64, *apperrors.AppError)
	Credit(ctx context.Context, contract, address string, amount valueobjects.BaseUnits) (valueobjects.BaseUnits, *apperrors.AppError)
	// ApplyTransfer debits From, credits To, enqueues the transfer and advances the
	// sender nonce atomically.
	ApplyTransfer(ctx context.Context, transfer entities.QueuedTransfer) (dto.ApplyTransferOutput, *apperrors.AppError)
	QueueLengths(ctx context.Context) (map[string]int, *apperrors.AppError)
	ListQueued(ctx context.Context, contract string, limit int) ([]entities.QueuedTransfer, *apperrors.AppError)
	MarkSettled(ctx context.Context, ids []string, txID string, settledAt time.Time) *apperrors.AppError
}
