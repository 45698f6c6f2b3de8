package in

import (
	"context"

	"blaze/internal/application/dto"
	apperrors "blaze/internal/shared_kernel/errors"
)

type GetUserBalancesUseCase interface {
	Execute(ctx context.Context, query dto.GetUserBalancesQuery) (dto.GetUserBalancesOutput, *apperrors.AppError)
}
