package use_cases

import (
	"context"
	"strings"

	"blaze/internal/application/dto"
	portsin "blaze/internal/application/ports/in"
	portsout "blaze/internal/application/ports/out"
	"blaze/internal/application/state"
	"blaze/internal/domain/contractcall"
	"blaze/internal/domain/entities"
	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
)

const (
	OperationDeposit  = "deposit"
	OperationWithdraw = "withdraw"
	OperationTransfer = "transfer"
	OperationStake    = "stake"
	OperationUnstake  = "unstake"
	OperationSwap     = "swap"
)

type buildContractCallUseCase struct {
	builder  contractcall.Builder
	registry *entities.TokenRegistry
	routes   []entities.SwapRoute
	reader   portsout.ChainReadOnlyGateway
	store    *state.Store
}

func NewBuildContractCallUseCase(
	builder contractcall.Builder,
	registry *entities.TokenRegistry,
	routes []entities.SwapRoute,
	reader portsout.ChainReadOnlyGateway,
	store *state.Store,
) portsin.BuildContractCallUseCase {
	return &buildContractCallUseCase{
		builder:  builder,
		registry: registry,
		routes:   routes,
		reader:   reader,
		store:    store,
	}
}

func (u *buildContractCallUseCase) Execute(ctx context.Context, command dto.BuildContractCallCommand) (dto.ContractCallOutput, *apperrors.AppError) {
	if u.registry == nil {
		return dto.ContractCallOutput{}, apperrors.NewInternal(
			"token_registry_missing",
			"token registry is required",
			nil,
		)
	}

	operation := strings.ToLower(strings.TrimSpace(command.Operation))
	mode := contractcall.PostConditionMode(strings.ToLower(strings.TrimSpace(command.PostConditionMode)))

	switch operation {
	case OperationDeposit:
		return u.buildDeposit(command, mode)
	case OperationWithdraw:
		return u.buildWithdraw(command, mode)
	case OperationTransfer:
		return u.buildTransfer(command, mode)
	case OperationStake:
		return u.buildStake(command, mode)
	case OperationUnstake:
		return u.buildUnstake(ctx, command, mode)
	case OperationSwap:
		return u.buildSwap(command, mode)
	default:
		return dto.ContractCallOutput{}, apperrors.NewValidation(
			"unsupported_operation",
			"operation must be one of deposit, withdraw, transfer, stake, unstake or swap",
			map[string]any{"operation": command.Operation},
		)
	}
}

func (u *buildContractCallUseCase) buildDeposit(command dto.BuildContractCallCommand, mode contractcall.PostConditionMode) (dto.ContractCallOutput, *apperrors.AppError) {
	token, appErr := u.registry.Resolve(command.Token)
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}
	sender, appErr := u.resolveSender(command.Sender)
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}
	amount, appErr := scaleCommandAmount(command.Amount, token, command, true)
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}

	descriptor, appErr := u.builder.Deposit(token, sender, amount, mode)
	return contractCallOutput(OperationDeposit, sender.String(), amount, "", descriptor, appErr)
}

func (u *buildContractCallUseCase) buildWithdraw(command dto.BuildContractCallCommand, mode contractcall.PostConditionMode) (dto.ContractCallOutput, *apperrors.AppError) {
	token, appErr := u.registry.Resolve(command.Token)
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}
	amount, appErr := scaleCommandAmount(command.Amount, token, command, false)
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}

	// The caller is not part of a withdraw call; it is only recorded for balance events.
	var caller string
	if sender, senderErr := u.resolveSender(command.Sender); senderErr == nil {
		caller = sender.String()
	}

	descriptor, appErr := u.builder.Withdraw(token, amount, mode)
	return contractCallOutput(OperationWithdraw, caller, amount, "", descriptor, appErr)
}

func (u *buildContractCallUseCase) buildTransfer(command dto.BuildContractCallCommand, mode contractcall.PostConditionMode) (dto.ContractCallOutput, *apperrors.AppError) {
	token, appErr := u.registry.Resolve(command.Token)
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}
	sender, appErr := u.resolveSender(command.Sender)
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}
	recipient, appErr := parseHolder(command.Recipient, "recipient")
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}
	amount, appErr := scaleCommandAmount(command.Amount, token, command, false)
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}

	descriptor, appErr := u.builder.Transfer(token, sender, recipient, amount, mode)
	return contractCallOutput(OperationTransfer, sender.String(), amount, "", descriptor, appErr)
}

// buildStake accepts either the base token or its liquid-staked form as the token.
func (u *buildContractCallUseCase) buildStake(command dto.BuildContractCallCommand, mode contractcall.PostConditionMode) (dto.ContractCallOutput, *apperrors.AppError) {
	staked, base, appErr := u.resolveStakingPair(command.Token)
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}
	sender, appErr := u.resolveSender(command.Sender)
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}
	amount, appErr := scaleCommandAmount(command.Amount, base, command, false)
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}

	descriptor, appErr := u.builder.Stake(staked, base, sender, amount, mode)
	return contractCallOutput(OperationStake, sender.String(), amount, "", descriptor, appErr)
}

func (u *buildContractCallUseCase) buildUnstake(ctx context.Context, command dto.BuildContractCallCommand, mode contractcall.PostConditionMode) (dto.ContractCallOutput, *apperrors.AppError) {
	staked, base, appErr := u.resolveStakingPair(command.Token)
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}
	sender, appErr := u.resolveSender(command.Sender)
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}
	amount, appErr := scaleCommandAmount(command.Amount, staked, command, false)
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}

	rate, rateErr := fetchExchangeRate(ctx, u.reader, staked.Contract, sender)
	if rateErr != nil {
		return dto.ContractCallOutput{}, apperrors.NewUnavailable(
			"exchange_rate_unavailable",
			"staking exchange rate could not be read; unstake is blocked",
			map[string]any{
				"staking_contract": staked.Contract.String(),
				"cause":            rateErr.Code,
			},
		)
	}

	descriptor, appErr := u.builder.Unstake(staked, base, sender, amount, &rate, mode)
	return contractCallOutput(OperationUnstake, sender.String(), amount, rate.String(), descriptor, appErr)
}

func (u *buildContractCallUseCase) buildSwap(command dto.BuildContractCallCommand, mode contractcall.PostConditionMode) (dto.ContractCallOutput, *apperrors.AppError) {
	tokenIn, appErr := u.registry.Resolve(command.Token)
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}
	tokenOut, appErr := u.registry.Resolve(command.TokenOut)
	if appErr != nil {
		appErr.Details = withField(appErr.Details, "tokenOut")
		return dto.ContractCallOutput{}, appErr
	}
	route, forward, appErr := entities.FindSwapRoute(u.routes, tokenIn.Symbol(), tokenOut.Symbol())
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}
	sender, appErr := u.resolveSender(command.Sender)
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}
	amountIn, appErr := scaleCommandAmount(command.Amount, tokenIn, command, false)
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}
	minOut, appErr := u.minimumOut(command, tokenOut)
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}

	descriptor, appErr := u.builder.Swap(contractcall.SwapInput{
		Route:        route,
		Forward:      forward,
		TokenIn:      tokenIn,
		TokenOut:     tokenOut,
		Sender:       sender,
		AmountIn:     amountIn,
		MinAmountOut: minOut,
		Mode:         mode,
	})
	return contractCallOutput(OperationSwap, sender.String(), amountIn, "", descriptor, appErr)
}

// minimumOut prefers an explicit bound; otherwise it discounts the expected output by
// the session slippage. Neither yields zero, which the builder rejects.
func (u *buildContractCallUseCase) minimumOut(command dto.BuildContractCallCommand, tokenOut entities.Token) (valueobjects.BaseUnits, *apperrors.AppError) {
	if strings.TrimSpace(command.MinAmountOut) != "" {
		return scaleField(command.MinAmountOut, "minAmountOut", tokenOut, command.Truncate)
	}
	if strings.TrimSpace(command.ExpectedAmountOut) == "" {
		return valueobjects.BaseUnits{}, nil
	}

	expected, appErr := scaleField(command.ExpectedAmountOut, "expectedAmountOut", tokenOut, command.Truncate)
	if appErr != nil {
		return valueobjects.BaseUnits{}, appErr
	}
	slippage := state.DefaultSlippageBps
	if u.store != nil {
		slippage = u.store.SwapSettings().SlippageBps
	}
	return valueobjects.BasisPointsFloor(expected, 10000-slippage)
}

func (u *buildContractCallUseCase) resolveSender(raw string) (valueobjects.Principal, *apperrors.AppError) {
	if strings.TrimSpace(raw) == "" && u.store != nil {
		raw = u.store.Session().Address
	}
	if strings.TrimSpace(raw) == "" {
		return valueobjects.Principal{}, apperrors.NewValidation(
			"sender_required",
			"sender is required when no session address is set",
			map[string]any{"field": "sender"},
		)
	}
	return parseHolder(raw, "sender")
}

func (u *buildContractCallUseCase) resolveStakingPair(reference string) (entities.Token, entities.Token, *apperrors.AppError) {
	token, appErr := u.registry.Resolve(reference)
	if appErr != nil {
		return entities.Token{}, entities.Token{}, appErr
	}

	if token.IsStaked() {
		base, ok := u.registry.BySymbol(token.Definition.BaseSymbol)
		if !ok {
			return entities.Token{}, entities.Token{}, apperrors.NewNotFound(
				"token_not_found",
				"base token of the staked token is not in the registry",
				map[string]any{"token": token.Definition.BaseSymbol},
			)
		}
		return token, base, nil
	}

	staked, ok := u.registry.StakedFor(token.Symbol())
	if !ok {
		return entities.Token{}, entities.Token{}, apperrors.NewValidation(
			"unsupported_token",
			"token has no liquid-staked form",
			map[string]any{"token": token.Symbol()},
		)
	}
	return staked, token, nil
}

// scaleCommandAmount applies the deposit cap only when capped is set.
func scaleCommandAmount(raw string, token entities.Token, command dto.BuildContractCallCommand, capped bool) (valueobjects.BaseUnits, *apperrors.AppError) {
	options := token.ScaleOptions()
	if !capped {
		options.Cap = ""
	}
	options.TruncateFraction = command.Truncate
	options.ClampToCap = command.Clamp

	amount, appErr := valueobjects.ScaleAmount(raw, options)
	if appErr != nil {
		appErr.Details = withField(appErr.Details, "amount")
		return valueobjects.BaseUnits{}, appErr
	}
	return amount, nil
}

func scaleField(raw, field string, token entities.Token, truncate bool) (valueobjects.BaseUnits, *apperrors.AppError) {
	amount, appErr := valueobjects.ScaleAmount(raw, valueobjects.ScaleOptions{
		Decimals:         token.Decimals(),
		TruncateFraction: truncate,
	})
	if appErr != nil {
		appErr.Details = withField(appErr.Details, field)
		return valueobjects.BaseUnits{}, appErr
	}
	return amount, nil
}

func contractCallOutput(
	operation string,
	sender string,
	amount valueobjects.BaseUnits,
	rate string,
	descriptor contractcall.Descriptor,
	appErr *apperrors.AppError,
) (dto.ContractCallOutput, *apperrors.AppError) {
	if appErr != nil {
		return dto.ContractCallOutput{}, appErr
	}
	return dto.ContractCallOutput{
		Operation:    operation,
		Sender:       sender,
		Amount:       amount,
		ExchangeRate: rate,
		Descriptor:   descriptor,
	}, nil
}
