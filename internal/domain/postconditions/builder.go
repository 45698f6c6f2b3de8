package postconditions

import (
	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
)

type OperationKind string

const (
	OperationDeposit       OperationKind = "deposit"
	OperationWithdraw      OperationKind = "withdraw"
	OperationTransfer      OperationKind = "transfer"
	OperationStake         OperationKind = "stake"
	OperationUnstake       OperationKind = "unstake"
	OperationSwap          OperationKind = "swap"
	OperationBatchTransfer OperationKind = "batch-transfer"
)

// Operation is one of the fund-flow shapes Build knows how to constrain.
type Operation interface {
	Kind() OperationKind
}

// Deposit moves Amount from Sender into the subnet contract.
type Deposit struct {
	Sender valueobjects.Principal
	Asset  Asset
	Amount valueobjects.BaseUnits
}

// Withdraw moves Amount out of Contract back to the caller.
type Withdraw struct {
	Contract valueobjects.Principal
	Asset    Asset
	Amount   valueobjects.BaseUnits
}

type Transfer struct {
	Sender valueobjects.Principal
	Asset  Asset
	Amount valueobjects.BaseUnits
}

type Stake struct {
	Sender    valueobjects.Principal
	BaseAsset Asset
	Amount    valueobjects.BaseUnits
}

// Unstake burns Amount of StakedAsset; StakingContract pays back at least
// floor(Amount * ExchangeRate) of BaseAsset.
type Unstake struct {
	Sender          valueobjects.Principal
	StakingContract valueobjects.Principal
	StakedAsset     Asset
	BaseAsset       Asset
	Amount          valueobjects.BaseUnits
	ExchangeRate    *valueobjects.ExchangeRate
}

type Swap struct {
	Sender       valueobjects.Principal
	PoolCore     valueobjects.Principal
	AssetIn      Asset
	AssetOut     Asset
	AmountIn     valueobjects.BaseUnits
	MinAmountOut valueobjects.BaseUnits
	MaxFee       valueobjects.BaseUnits
}

// BatchTransfer settles movements internal to the subnet contract, so it carries no
// post-conditions.
type BatchTransfer struct{}

func (Deposit) Kind() OperationKind       { return OperationDeposit }
func (Withdraw) Kind() OperationKind      { return OperationWithdraw }
func (Transfer) Kind() OperationKind      { return OperationTransfer }
func (Stake) Kind() OperationKind         { return OperationStake }
func (Unstake) Kind() OperationKind       { return OperationUnstake }
func (Swap) Kind() OperationKind          { return OperationSwap }
func (BatchTransfer) Kind() OperationKind { return OperationBatchTransfer }

func Build(operation Operation) ([]PostCondition, *apperrors.AppError) {
	switch op := operation.(type) {
	case Deposit:
		if appErr := requirePositive(op.Amount, "amount"); appErr != nil {
			return nil, appErr
		}
		return []PostCondition{exactly(op.Sender, op.Amount, op.Asset)}, nil
	case Withdraw:
		if appErr := requirePositive(op.Amount, "amount"); appErr != nil {
			return nil, appErr
		}
		return []PostCondition{exactly(op.Contract, op.Amount, op.Asset)}, nil
	case Transfer:
		if appErr := requirePositive(op.Amount, "amount"); appErr != nil {
			return nil, appErr
		}
		return []PostCondition{exactly(op.Sender, op.Amount, op.Asset)}, nil
	case Stake:
		if appErr := requirePositive(op.Amount, "amount"); appErr != nil {
			return nil, appErr
		}
		return []PostCondition{exactly(op.Sender, op.Amount, op.BaseAsset)}, nil
	case Unstake:
		return buildUnstake(op)
	case Swap:
		return buildSwap(op)
	case BatchTransfer:
		return []PostCondition{}, nil
	case nil:
		return nil, apperrors.NewValidation("invalid_operation", "operation is required", nil)
	default:
		return nil, apperrors.NewValidation(
			"invalid_operation",
			"unsupported operation",
			map[string]any{"operation": string(operation.Kind())},
		)
	}
}

func buildUnstake(op Unstake) ([]PostCondition, *apperrors.AppError) {
	if appErr := requirePositive(op.Amount, "amount"); appErr != nil {
		return nil, appErr
	}
	if op.ExchangeRate == nil || op.ExchangeRate.IsZero() {
		return nil, apperrors.NewValidation(
			"exchange_rate_unavailable",
			"an exchange rate is required to constrain the unstake payout",
			map[string]any{"staking_contract": op.StakingContract.String()},
		)
	}

	minimum, appErr := MinimumFromRate(op.Amount, *op.ExchangeRate)
	if appErr != nil {
		return nil, appErr
	}

	return []PostCondition{
		exactly(op.Sender, op.Amount, op.StakedAsset),
		{
			Principal:  op.StakingContract,
			Comparator: ComparatorGte,
			Quantity:   minimum,
			Asset:      op.BaseAsset,
		},
	}, nil
}

func buildSwap(op Swap) ([]PostCondition, *apperrors.AppError) {
	if appErr := requirePositive(op.AmountIn, "amount_in"); appErr != nil {
		return nil, appErr
	}
	if op.MinAmountOut.IsZero() {
		return nil, apperrors.NewValidation(
			"swap_quote_unavailable",
			"a positive minimum output is required to constrain the swap",
			map[string]any{"field": "min_amount_out"},
		)
	}

	return []PostCondition{
		{Principal: op.Sender, Comparator: ComparatorLte, Quantity: op.AmountIn, Asset: op.AssetIn},
		{Principal: op.PoolCore, Comparator: ComparatorGte, Quantity: op.MinAmountOut, Asset: op.AssetOut},
		{Principal: op.PoolCore, Comparator: ComparatorLte, Quantity: op.MaxFee, Asset: op.AssetIn},
	}, nil
}

// MinimumFromRate returns floor(amount * rate).
func MinimumFromRate(amount valueobjects.BaseUnits, rate valueobjects.ExchangeRate) (valueobjects.BaseUnits, *apperrors.AppError) {
	return rate.ApplyFloor(amount)
}

func exactly(principal valueobjects.Principal, amount valueobjects.BaseUnits, asset Asset) PostCondition {
	return PostCondition{
		Principal:  principal,
		Comparator: ComparatorEq,
		Quantity:   amount,
		Asset:      asset,
	}
}

func requirePositive(amount valueobjects.BaseUnits, field string) *apperrors.AppError {
	if amount.IsZero() {
		return apperrors.NewValidation(
			"amount_zero",
			"amount must be greater than zero",
			map[string]any{"field": field},
		)
	}
	return nil
}
