package out

import (
	"context"

	"blaze/internal/application/dto"
	apperrors "blaze/internal/shared_kernel/errors"
)

// SignerRelayGateway hands a descriptor to the wallet boundary and waits for the outcome.
type SignerRelayGateway interface {
	SignContractCall(
		ctx context.Context,
		input dto.SignContractCallInput,
	) (dto.SignContractCallOutput, *apperrors.AppError)
}
