package contractcall

import (
	"strings"

	"blaze/internal/domain/clarity"
	"blaze/internal/domain/entities"
	"blaze/internal/domain/postconditions"
	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
)

const (
	FunctionDeposit       = "deposit"
	FunctionWithdraw      = "withdraw"
	FunctionStake         = "stake"
	FunctionUnstake       = "unstake"
	FunctionTransfer      = "transfer"
	FunctionBatchTransfer = "batch-transfer"
	FunctionSwapExactIn   = "swap-exact-tokens-for-tokens"
)

// Call is the raw material for one descriptor.
type Call struct {
	Contract     valueobjects.Principal
	FunctionName string
	Args         []clarity.Value
	Operation    postconditions.Operation
	Mode         PostConditionMode
}

type Builder struct {
	network          valueobjects.Network
	allowModeEnabled bool
}

func NewBuilder(network valueobjects.Network, allowModeEnabled bool) Builder {
	return Builder{
		network:          network,
		allowModeEnabled: allowModeEnabled,
	}
}

func (b Builder) Network() valueobjects.Network {
	return b.network
}

func (b Builder) Build(call Call) (Descriptor, *apperrors.AppError) {
	if !call.Contract.IsContract() {
		return Descriptor{}, apperrors.NewValidation(
			"invalid_contract",
			"contract call target must be a contract principal",
			map[string]any{"contract": call.Contract.String()},
		)
	}
	if !b.network.Accepts(call.Contract) {
		return Descriptor{}, apperrors.NewValidation(
			"network_mismatch",
			"contract does not belong to the configured network",
			map[string]any{"contract": call.Contract.String(), "network": b.network.String()},
		)
	}
	if strings.TrimSpace(call.FunctionName) == "" {
		return Descriptor{}, apperrors.NewValidation(
			"invalid_function_name",
			"function name is required",
			nil,
		)
	}

	mode, appErr := b.resolveMode(call.Mode)
	if appErr != nil {
		return Descriptor{}, appErr
	}

	conditions, appErr := postconditions.Build(call.Operation)
	if appErr != nil {
		return Descriptor{}, appErr
	}
	conditionsHex, err := postconditions.EncodeAllHex(conditions)
	if err != nil {
		return Descriptor{}, apperrors.NewValidation(
			"invalid_post_condition",
			"post-conditions cannot be encoded",
			map[string]any{"error": err.Error()},
		)
	}

	args := clarity.Args(call.Args)
	argsHex, err := args.Hex()
	if err != nil {
		return Descriptor{}, apperrors.NewValidation(
			"invalid_function_args",
			"function arguments cannot be serialized",
			map[string]any{"error": err.Error()},
		)
	}

	return Descriptor{
		ContractAddress:   call.Contract.AddressString(),
		ContractName:      call.Contract.ContractName(),
		FunctionName:      call.FunctionName,
		FunctionArgs:      args,
		FunctionArgsHex:   argsHex,
		Network:           b.network,
		PostConditionMode: mode,
		PostConditions:    conditions,
		PostConditionsHex: conditionsHex,
	}, nil
}

func (b Builder) resolveMode(requested PostConditionMode) (PostConditionMode, *apperrors.AppError) {
	switch requested {
	case "", PostConditionModeDeny:
		return PostConditionModeDeny, nil
	case PostConditionModeAllow:
		if !b.allowModeEnabled {
			return "", apperrors.NewValidation(
				"allow_mode_disabled",
				"allow post-condition mode is disabled on this service",
				nil,
			)
		}
		return PostConditionModeAllow, nil
	default:
		return "", apperrors.NewValidation(
			"invalid_post_condition_mode",
			"post-condition mode must be deny or allow",
			map[string]any{"mode": string(requested)},
		)
	}
}

func (b Builder) Deposit(token entities.Token, sender valueobjects.Principal, amount valueobjects.BaseUnits, mode PostConditionMode) (Descriptor, *apperrors.AppError) {
	blaze, appErr := requireBlazeContract(token)
	if appErr != nil {
		return Descriptor{}, appErr
	}
	return b.Build(Call{
		Contract:     blaze,
		FunctionName: FunctionDeposit,
		Args:         []clarity.Value{clarity.UIntFromBaseUnits(amount)},
		Operation:    postconditions.Deposit{Sender: sender, Asset: token.Asset(), Amount: amount},
		Mode:         mode,
	})
}

func (b Builder) Withdraw(token entities.Token, amount valueobjects.BaseUnits, mode PostConditionMode) (Descriptor, *apperrors.AppError) {
	blaze, appErr := requireBlazeContract(token)
	if appErr != nil {
		return Descriptor{}, appErr
	}
	return b.Build(Call{
		Contract:     blaze,
		FunctionName: FunctionWithdraw,
		Args:         []clarity.Value{clarity.UIntFromBaseUnits(amount)},
		Operation:    postconditions.Withdraw{Contract: blaze, Asset: token.Asset(), Amount: amount},
		Mode:         mode,
	})
}

// Transfer builds a SIP-010 transfer with an empty memo.
func (b Builder) Transfer(token entities.Token, sender, recipient valueobjects.Principal, amount valueobjects.BaseUnits, mode PostConditionMode) (Descriptor, *apperrors.AppError) {
	if token.Definition.IsSTX {
		return Descriptor{}, apperrors.NewValidation(
			"unsupported_token",
			"native STX transfers are not contract calls",
			map[string]any{"token": token.Symbol()},
		)
	}
	return b.Build(Call{
		Contract:     token.Contract,
		FunctionName: FunctionTransfer,
		Args: []clarity.Value{
			clarity.UIntFromBaseUnits(amount),
			clarity.PrincipalValue(sender),
			clarity.PrincipalValue(recipient),
			clarity.OptionalValue(nil),
		},
		Operation: postconditions.Transfer{Sender: sender, Asset: token.Asset(), Amount: amount},
		Mode:      mode,
	})
}

// Stake deposits base tokens into the liquid-staking contract of staked.
func (b Builder) Stake(staked, base entities.Token, sender valueobjects.Principal, amount valueobjects.BaseUnits, mode PostConditionMode) (Descriptor, *apperrors.AppError) {
	if appErr := requireStakedPair(staked, base); appErr != nil {
		return Descriptor{}, appErr
	}
	return b.Build(Call{
		Contract:     staked.Contract,
		FunctionName: FunctionStake,
		Args:         []clarity.Value{clarity.UIntFromBaseUnits(amount)},
		Operation:    postconditions.Stake{Sender: sender, BaseAsset: base.Asset(), Amount: amount},
		Mode:         mode,
	})
}

func (b Builder) Unstake(
	staked, base entities.Token,
	sender valueobjects.Principal,
	amount valueobjects.BaseUnits,
	rate *valueobjects.ExchangeRate,
	mode PostConditionMode,
) (Descriptor, *apperrors.AppError) {
	if appErr := requireStakedPair(staked, base); appErr != nil {
		return Descriptor{}, appErr
	}
	return b.Build(Call{
		Contract:     staked.Contract,
		FunctionName: FunctionUnstake,
		Args:         []clarity.Value{clarity.UIntFromBaseUnits(amount)},
		Operation: postconditions.Unstake{
			Sender:          sender,
			StakingContract: staked.Contract,
			StakedAsset:     staked.Asset(),
			BaseAsset:       base.Asset(),
			Amount:          amount,
			ExchangeRate:    rate,
		},
		Mode: mode,
	})
}

type SwapInput struct {
	Route        entities.SwapRoute
	Forward      bool
	TokenIn      entities.Token
	TokenOut     entities.Token
	Sender       valueobjects.Principal
	AmountIn     valueobjects.BaseUnits
	MinAmountOut valueobjects.BaseUnits
	Mode         PostConditionMode
}

// Swap builds an exact-input swap through a univ2 router. The pool takes its protocol
// fee from the input token, bounded by an lte leg on the core contract.
func (b Builder) Swap(input SwapInput) (Descriptor, *apperrors.AppError) {
	route := input.Route
	tokenIn, tokenOut := route.Token0, route.Token1
	if !input.Forward {
		tokenIn, tokenOut = route.Token1, route.Token0
	}

	maxFee, appErr := valueobjects.BasisPointsCeil(input.AmountIn, route.Definition.ProtocolFeeBp)
	if appErr != nil {
		return Descriptor{}, appErr
	}

	return b.Build(Call{
		Contract:     route.Router,
		FunctionName: FunctionSwapExactIn,
		Args: []clarity.Value{
			clarity.NewUInt(route.Definition.PoolID),
			clarity.PrincipalValue(route.Token0),
			clarity.PrincipalValue(route.Token1),
			clarity.PrincipalValue(tokenIn),
			clarity.PrincipalValue(tokenOut),
			clarity.PrincipalValue(route.ShareFeeTo),
			clarity.UIntFromBaseUnits(input.AmountIn),
			clarity.UIntFromBaseUnits(input.MinAmountOut),
		},
		Operation: postconditions.Swap{
			Sender:       input.Sender,
			PoolCore:     route.Core,
			AssetIn:      input.TokenIn.Asset(),
			AssetOut:     input.TokenOut.Asset(),
			AmountIn:     input.AmountIn,
			MinAmountOut: input.MinAmountOut,
			MaxFee:       maxFee,
		},
		Mode: input.Mode,
	})
}

// BatchEntry is one signed transfer inside a batch-transfer call.
type BatchEntry struct {
	To        valueobjects.Principal
	Amount    valueobjects.BaseUnits
	Nonce     uint64
	Signature []byte
}

func (b Builder) BatchTransfer(contract valueobjects.Principal, entries []BatchEntry) (Descriptor, *apperrors.AppError) {
	if len(entries) == 0 {
		return Descriptor{}, apperrors.NewValidation(
			"empty_batch",
			"batch transfer requires at least one entry",
			nil,
		)
	}

	operations := make(clarity.List, 0, len(entries))
	for _, entry := range entries {
		operations = append(operations, clarity.Tuple{
			"to":        clarity.PrincipalValue(entry.To),
			"amount":    clarity.UIntFromBaseUnits(entry.Amount),
			"nonce":     clarity.NewUInt(entry.Nonce),
			"signature": clarity.Buffer(entry.Signature),
		})
	}

	return b.Build(Call{
		Contract:     contract,
		FunctionName: FunctionBatchTransfer,
		Args:         []clarity.Value{operations},
		Operation:    postconditions.BatchTransfer{},
		Mode:         PostConditionModeDeny,
	})
}

func requireBlazeContract(token entities.Token) (valueobjects.Principal, *apperrors.AppError) {
	if token.BlazeContract == nil {
		return valueobjects.Principal{}, apperrors.NewValidation(
			"unsupported_token",
			"token has no blaze subnet contract",
			map[string]any{"token": token.Symbol()},
		)
	}
	return *token.BlazeContract, nil
}

func requireStakedPair(staked, base entities.Token) *apperrors.AppError {
	if !staked.IsStaked() || !strings.EqualFold(staked.Definition.BaseSymbol, base.Symbol()) {
		return apperrors.NewValidation(
			"unsupported_token",
			"token is not a liquid-staked form of the base token",
			map[string]any{"staked": staked.Symbol(), "base": base.Symbol()},
		)
	}
	return nil
}
