package use_cases

import (
	"context"
	"log"

	"blaze/internal/application/dto"
	portsin "blaze/internal/application/ports/in"
	portsout "blaze/internal/application/ports/out"
	"blaze/internal/domain/entities"
	apperrors "blaze/internal/shared_kernel/errors"
)

type getBalanceUseCase struct {
	registry *entities.TokenRegistry
	reader   portsout.ChainReadOnlyGateway
	logger   *log.Logger
}

func NewGetBalanceUseCase(
	registry *entities.TokenRegistry,
	reader portsout.ChainReadOnlyGateway,
	logger *log.Logger,
) portsin.GetBalanceUseCase {
	return &getBalanceUseCase{
		registry: registry,
		reader:   reader,
		logger:   logger,
	}
}

// Execute rejects malformed input, but a failed chain read yields a zero balance.
func (u *getBalanceUseCase) Execute(ctx context.Context, query dto.GetBalanceQuery) (dto.GetBalanceOutput, *apperrors.AppError) {
	token, contract, appErr := resolveBlazeToken(u.registry, query.Token)
	if appErr != nil {
		return dto.GetBalanceOutput{}, appErr
	}
	holder, appErr := parseHolder(query.Address, "address")
	if appErr != nil {
		return dto.GetBalanceOutput{}, appErr
	}

	balance, degraded := fetchBalance(ctx, u.reader, u.logger, contract, holder)
	return dto.GetBalanceOutput{
		Token:    token.ContractID(),
		Address:  holder.String(),
		Balance:  balance,
		Degraded: degraded,
	}, nil
}
