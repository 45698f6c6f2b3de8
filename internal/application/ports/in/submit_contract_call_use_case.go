package in

import (
	"context"

	"blaze/internal/application/dto"
	apperrors "blaze/internal/shared_kernel/errors"
)

type SubmitContractCallUseCase interface {
	Execute(ctx context.Context, command dto.BuildContractCallCommand) (dto.SubmitContractCallOutput, *apperrors.AppError)
}
