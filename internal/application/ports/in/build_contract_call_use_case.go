package in

import (
	"context"

	"blaze/internal/application/dto"
	apperrors "blaze/internal/shared_kernel/errors"
)

type BuildContractCallUseCase interface {
	Execute(ctx context.Context, command dto.BuildContractCallCommand) (dto.ContractCallOutput, *apperrors.AppError)
}
