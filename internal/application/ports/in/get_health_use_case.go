package in

import (
	"context"

	"blaze/internal/application/dto"
	apperrors "blaze/internal/shared_kernel/errors"
)

type GetHealthUseCase interface {
	Execute(ctx context.Context, command dto.GetHealthCommand) (dto.HealthOutput, *apperrors.AppError)
}
