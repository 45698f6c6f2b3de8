package use_cases

import (
	"context"

	"blaze/internal/application/dto"
	portsin "blaze/internal/application/ports/in"
	portsout "blaze/internal/application/ports/out"
	"blaze/internal/domain/entities"
	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
)

type FaucetConfig struct {
	Enabled bool
	Token   string
	// Amount is a human decimal in the faucet token's units.
	Amount string
}

type claimFaucetUseCase struct {
	config    FaucetConfig
	registry  *entities.TokenRegistry
	ledger    portsout.LedgerRepository
	publisher portsout.BalanceEventPublisher
	clock     Clock
}

func NewClaimFaucetUseCase(
	config FaucetConfig,
	registry *entities.TokenRegistry,
	ledger portsout.LedgerRepository,
	publisher portsout.BalanceEventPublisher,
	clock Clock,
) portsin.ClaimFaucetUseCase {
	if clock == nil {
		clock = NewSystemClock()
	}
	return &claimFaucetUseCase{
		config:    config,
		registry:  registry,
		ledger:    ledger,
		publisher: publisher,
		clock:     clock,
	}
}

func (u *claimFaucetUseCase) Execute(ctx context.Context, command dto.FaucetCommand) (dto.FaucetOutput, *apperrors.AppError) {
	if !u.config.Enabled {
		return dto.FaucetOutput{}, apperrors.NewNotFound(
			"faucet_disabled",
			"faucet is not enabled on this service",
			nil,
		)
	}
	if u.ledger == nil {
		return dto.FaucetOutput{}, apperrors.NewInternal(
			"ledger_repository_missing",
			"ledger repository is required",
			nil,
		)
	}

	token, contract, appErr := resolveBlazeToken(u.registry, u.config.Token)
	if appErr != nil {
		return dto.FaucetOutput{}, appErr
	}
	recipient, appErr := parseHolder(command.Address, "address")
	if appErr != nil {
		return dto.FaucetOutput{}, appErr
	}
	amount, appErr := valueobjects.ScaleAmount(u.config.Amount, valueobjects.ScaleOptions{Decimals: token.Decimals()})
	if appErr != nil {
		return dto.FaucetOutput{}, apperrors.NewInternal(
			"faucet_amount_invalid",
			"configured faucet amount is invalid",
			map[string]any{"amount": u.config.Amount, "cause": appErr.Code},
		)
	}

	balance, appErr := u.ledger.Credit(ctx, contract.String(), recipient.String(), amount)
	if appErr != nil {
		return dto.FaucetOutput{}, appErr
	}

	if u.publisher != nil {
		u.publisher.Publish(ctx, dto.BalanceEvent{
			Type:     dto.BalanceEventDeposit,
			Action:   "faucet",
			Contract: contract.String(),
			Address:  recipient.String(),
			Amount:   amount,
			At:       u.clock.NowUTC(),
		})
	}

	return dto.FaucetOutput{
		Token:      token.ContractID(),
		Amount:     amount,
		NewBalance: balance,
	}, nil
}
