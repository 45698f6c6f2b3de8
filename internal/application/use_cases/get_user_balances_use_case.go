package use_cases

import (
	"context"
	"log"

	"blaze/internal/application/dto"
	portsin "blaze/internal/application/ports/in"
	portsout "blaze/internal/application/ports/out"
	"blaze/internal/application/state"
	"blaze/internal/domain/entities"
	apperrors "blaze/internal/shared_kernel/errors"
)

type getUserBalancesUseCase struct {
	registry *entities.TokenRegistry
	reader   portsout.ChainReadOnlyGateway
	ledger   portsout.LedgerRepository
	store    *state.Store
	logger   *log.Logger
}

func NewGetUserBalancesUseCase(
	registry *entities.TokenRegistry,
	reader portsout.ChainReadOnlyGateway,
	ledger portsout.LedgerRepository,
	store *state.Store,
	logger *log.Logger,
) portsin.GetUserBalancesUseCase {
	return &getUserBalancesUseCase{
		registry: registry,
		reader:   reader,
		ledger:   ledger,
		store:    store,
		logger:   logger,
	}
}

// Execute combines the subnet balance read from chain with ledger credit and nonce for
// every blaze-enabled token, keyed by subnet contract.
func (u *getUserBalancesUseCase) Execute(ctx context.Context, query dto.GetUserBalancesQuery) (dto.GetUserBalancesOutput, *apperrors.AppError) {
	if u.registry == nil || u.ledger == nil {
		return dto.GetUserBalancesOutput{}, apperrors.NewInternal(
			"balance_dependencies_missing",
			"token registry and ledger repository are required",
			nil,
		)
	}

	holder, appErr := parseHolder(query.Address, "address")
	if appErr != nil {
		return dto.GetUserBalancesOutput{}, appErr
	}

	balances := make(map[string]entities.BalanceSnapshot)
	for _, token := range u.registry.BlazeTokens() {
		contract := *token.BlazeContract
		key := contract.String()

		total, _ := fetchBalance(ctx, u.reader, u.logger, contract, holder)
		credit, appErr := u.ledger.Balance(ctx, key, holder.String())
		if appErr != nil {
			return dto.GetUserBalancesOutput{}, appErr
		}
		nonce, appErr := u.ledger.Nonce(ctx, key, holder.String())
		if appErr != nil {
			return dto.GetUserBalancesOutput{}, appErr
		}

		balances[key] = entities.BalanceSnapshot{
			TokenContract: key,
			Total:         total,
			Credit:        &credit,
			Nonce:         &nonce,
		}
	}

	if u.store != nil {
		u.store.ReconcileBalances(holder.String(), balances)
	}

	return dto.GetUserBalancesOutput{
		Address:  holder.String(),
		Balances: balances,
	}, nil
}
