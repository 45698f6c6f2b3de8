package valueobjects

import (
	"encoding/json"
	"math/big"
	"regexp"
	"strings"

	apperrors "blaze/internal/shared_kernel/errors"
)

var (
	baseUnitsPattern = regexp.MustCompile(`^[0-9]{1,39}$`)
	maxUint128       = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// BaseUnits is a non-negative integer token quantity that fits a Clarity uint.
type BaseUnits struct {
	value *big.Int
}

func NewBaseUnits(value *big.Int) (BaseUnits, *apperrors.AppError) {
	if value == nil || value.Sign() < 0 {
		return BaseUnits{}, apperrors.NewValidation(
			"amount_negative",
			"amount must not be negative",
			nil,
		)
	}
	if value.Cmp(maxUint128) > 0 {
		return BaseUnits{}, apperrors.NewValidation(
			"amount_out_of_range",
			"amount exceeds the uint128 range",
			map[string]any{"amount": value.String()},
		)
	}
	return BaseUnits{value: new(big.Int).Set(value)}, nil
}

func BaseUnitsFromUint64(value uint64) BaseUnits {
	return BaseUnits{value: new(big.Int).SetUint64(value)}
}

func ParseBaseUnits(raw string) (BaseUnits, *apperrors.AppError) {
	value := strings.TrimSpace(raw)
	if !baseUnitsPattern.MatchString(value) {
		return BaseUnits{}, apperrors.NewValidation(
			"invalid_amount",
			"amount must be an integer string of base units",
			map[string]any{"amount": raw},
		)
	}

	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return BaseUnits{}, apperrors.NewValidation(
			"invalid_amount",
			"amount must be an integer string of base units",
			map[string]any{"amount": raw},
		)
	}
	return NewBaseUnits(parsed)
}

func (b BaseUnits) BigInt() *big.Int {
	if b.value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(b.value)
}

func (b BaseUnits) IsZero() bool {
	return b.value == nil || b.value.Sign() == 0
}

func (b BaseUnits) Cmp(other BaseUnits) int {
	return b.BigInt().Cmp(other.BigInt())
}

func (b BaseUnits) Add(other BaseUnits) (BaseUnits, *apperrors.AppError) {
	return NewBaseUnits(new(big.Int).Add(b.BigInt(), other.BigInt()))
}

func (b BaseUnits) Sub(other BaseUnits) (BaseUnits, *apperrors.AppError) {
	return NewBaseUnits(new(big.Int).Sub(b.BigInt(), other.BigInt()))
}

func (b BaseUnits) String() string {
	return b.BigInt().String()
}

func (b BaseUnits) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *BaseUnits) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, appErr := ParseBaseUnits(raw)
	if appErr != nil {
		return appErr
	}
	*b = parsed
	return nil
}
