package valueobjects

import (
	"strings"

	apperrors "blaze/internal/shared_kernel/errors"

	"github.com/shopspring/decimal"
)

// ExchangeRateScale is the fixed-point scale staking contracts report rates in.
const ExchangeRateScale = 6

type ExchangeRate struct {
	value decimal.Decimal
}

func ParseExchangeRate(raw string) (ExchangeRate, *apperrors.AppError) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !value.IsPositive() {
		return ExchangeRate{}, apperrors.NewValidation(
			"invalid_exchange_rate",
			"exchange rate must be a positive decimal",
			map[string]any{"exchange_rate": raw},
		)
	}
	return ExchangeRate{value: value}, nil
}

// ExchangeRateFromFixedPoint converts an on-chain rate scaled by 10^ExchangeRateScale.
func ExchangeRateFromFixedPoint(raw BaseUnits) (ExchangeRate, *apperrors.AppError) {
	if raw.IsZero() {
		return ExchangeRate{}, apperrors.NewValidation(
			"invalid_exchange_rate",
			"exchange rate must be positive",
			nil,
		)
	}
	return ExchangeRate{value: decimal.NewFromBigInt(raw.BigInt(), -ExchangeRateScale)}, nil
}

func (r ExchangeRate) IsZero() bool {
	return r.value.IsZero()
}

func (r ExchangeRate) String() string {
	return r.value.String()
}

// ApplyFloor returns floor(amount * rate).
func (r ExchangeRate) ApplyFloor(amount BaseUnits) (BaseUnits, *apperrors.AppError) {
	product := decimal.NewFromBigInt(amount.BigInt(), 0).Mul(r.value)
	return NewBaseUnits(product.Floor().BigInt())
}

// BasisPointsFloor returns floor(amount * bps / 10000).
func BasisPointsFloor(amount BaseUnits, bps int64) (BaseUnits, *apperrors.AppError) {
	product := decimal.NewFromBigInt(amount.BigInt(), 0).Mul(decimal.NewFromInt(bps)).Div(decimal.NewFromInt(10000))
	return NewBaseUnits(product.Floor().BigInt())
}

// BasisPointsCeil returns ceil(amount * bps / 10000).
func BasisPointsCeil(amount BaseUnits, bps int64) (BaseUnits, *apperrors.AppError) {
	product := decimal.NewFromBigInt(amount.BigInt(), 0).Mul(decimal.NewFromInt(bps)).Div(decimal.NewFromInt(10000))
	return NewBaseUnits(product.Ceil().BigInt())
}
