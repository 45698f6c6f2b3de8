package in

import (
	"context"

	"blaze/internal/application/dto"
	apperrors "blaze/internal/shared_kernel/errors"
)

type SettleTransfersUseCase interface {
	Execute(ctx context.Context, command dto.SettleTransfersCommand) (dto.SettleTransfersOutput, *apperrors.AppError)
}
