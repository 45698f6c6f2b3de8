package in

import (
	"context"

	"blaze/internal/application/dto"
	apperrors "blaze/internal/shared_kernel/errors"
)

type ListTokensUseCase interface {
	Execute(ctx context.Context, query dto.ListTokensQuery) (dto.ListTokensOutput, *apperrors.AppError)
}
