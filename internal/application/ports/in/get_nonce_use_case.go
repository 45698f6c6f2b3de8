package in

import (
	"context"

	"blaze/internal/application/dto"
	apperrors "blaze/internal/shared_kernel/errors"
)

type GetNonceUseCase interface {
	Execute(ctx context.Context, query dto.GetNonceQuery) (dto.GetNonceOutput, *apperrors.AppError)
}
