package in

import (
	"context"

	"blaze/internal/application/dto"
	apperrors "blaze/internal/shared_kernel/errors"
)

type UpdateSessionUseCase interface {
	Execute(ctx context.Context, command dto.UpdateSessionCommand) (dto.SessionOutput, *apperrors.AppError)
}
