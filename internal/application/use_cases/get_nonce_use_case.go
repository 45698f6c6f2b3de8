package use_cases

import (
	"context"

	"blaze/internal/application/dto"
	portsin "blaze/internal/application/ports/in"
	portsout "blaze/internal/application/ports/out"
	"blaze/internal/domain/entities"
	apperrors "blaze/internal/shared_kernel/errors"
)

type getNonceUseCase struct {
	registry *entities.TokenRegistry
	reader   portsout.ChainReadOnlyGateway
}

func NewGetNonceUseCase(registry *entities.TokenRegistry, reader portsout.ChainReadOnlyGateway) portsin.GetNonceUseCase {
	return &getNonceUseCase{
		registry: registry,
		reader:   reader,
	}
}

func (u *getNonceUseCase) Execute(ctx context.Context, query dto.GetNonceQuery) (dto.GetNonceOutput, *apperrors.AppError) {
	token, contract, appErr := resolveBlazeToken(u.registry, query.Token)
	if appErr != nil {
		return dto.GetNonceOutput{}, appErr
	}
	holder, appErr := parseHolder(query.Address, "address")
	if appErr != nil {
		return dto.GetNonceOutput{}, appErr
	}

	nonce, appErr := fetchNonce(ctx, u.reader, contract, holder)
	if appErr != nil {
		return dto.GetNonceOutput{}, appErr
	}

	return dto.GetNonceOutput{
		Token:   token.ContractID(),
		Address: holder.String(),
		Nonce:   nonce,
	}, nil
}
