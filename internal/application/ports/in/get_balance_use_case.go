package in

import (
	"context"

	"blaze/internal/application/dto"
	apperrors "blaze/internal/shared_kernel/errors"
)

type GetBalanceUseCase interface {
	Execute(ctx context.Context, query dto.GetBalanceQuery) (dto.GetBalanceOutput, *apperrors.AppError)
}
