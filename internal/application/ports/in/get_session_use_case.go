package in

import (
	"context"

	"blaze/internal/application/dto"
	apperrors "blaze/internal/shared_kernel/errors"
)

type GetSessionUseCase interface {
	Execute(ctx context.Context, query dto.GetSessionQuery) (dto.SessionOutput, *apperrors.AppError)
}
