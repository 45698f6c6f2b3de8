package in

import (
	"context"

	"blaze/internal/application/dto"
	apperrors "blaze/internal/shared_kernel/errors"
)

type ClaimFaucetUseCase interface {
	Execute(ctx context.Context, command dto.FaucetCommand) (dto.FaucetOutput, *apperrors.AppError)
}
