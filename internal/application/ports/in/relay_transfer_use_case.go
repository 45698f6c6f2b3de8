package in

import (
	"context"

	"blaze/internal/application/dto"
	apperrors "blaze/internal/shared_kernel/errors"
)

type RelayTransferUseCase interface {
	Execute(ctx context.Context, command dto.RelayTransferCommand) (dto.RelayTransferOutput, *apperrors.AppError)
}
