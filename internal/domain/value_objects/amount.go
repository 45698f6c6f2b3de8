package valueobjects

import (
	"regexp"
	"strings"

	apperrors "blaze/internal/shared_kernel/errors"

	"github.com/shopspring/decimal"
)

const MaxTokenDecimals = 18

var humanAmountPattern = regexp.MustCompile(`^(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)$`)

// ScaleOptions controls how a human amount is converted to base units. By default
// excess fractional digits and amounts above Cap are rejected.
type ScaleOptions struct {
	Decimals int
	// Cap is a human decimal ceiling; empty means uncapped.
	Cap              string
	TruncateFraction bool
	ClampToCap       bool
}

// ScaleAmount computes amount * 10^decimals on the decimal digits, never through floats.
func ScaleAmount(raw string, options ScaleOptions) (BaseUnits, *apperrors.AppError) {
	if options.Decimals < 0 || options.Decimals > MaxTokenDecimals {
		return BaseUnits{}, apperrors.NewValidation(
			"invalid_decimals",
			"decimals must be between 0 and 18",
			map[string]any{"decimals": options.Decimals},
		)
	}

	amount, appErr := parseHumanAmount(raw)
	if appErr != nil {
		return BaseUnits{}, appErr
	}

	if fractionDigits(amount) > options.Decimals {
		if !options.TruncateFraction {
			return BaseUnits{}, apperrors.NewValidation(
				"amount_precision_exceeded",
				"amount has more fractional digits than the token supports",
				map[string]any{"amount": raw, "decimals": options.Decimals},
			)
		}
		amount = amount.Truncate(int32(options.Decimals))
	}

	if strings.TrimSpace(options.Cap) != "" {
		capAmount, capErr := parseHumanAmount(options.Cap)
		if capErr != nil {
			return BaseUnits{}, apperrors.NewValidation(
				"invalid_amount_cap",
				"amount cap must be a non-negative decimal",
				map[string]any{"cap": options.Cap},
			)
		}
		capAmount = capAmount.Truncate(int32(options.Decimals))

		if amount.GreaterThan(capAmount) {
			if !options.ClampToCap {
				return BaseUnits{}, apperrors.NewValidation(
					"amount_exceeds_cap",
					"amount exceeds the allowed maximum",
					map[string]any{"amount": raw, "cap": capAmount.String()},
				)
			}
			amount = capAmount
		}
	}

	return NewBaseUnits(amount.Shift(int32(options.Decimals)).BigInt())
}

// FormatBaseUnits renders base units as a human decimal without trailing zeros.
func FormatBaseUnits(amount BaseUnits, decimals int) string {
	return decimal.NewFromBigInt(amount.BigInt(), -int32(decimals)).String()
}

func parseHumanAmount(raw string) (decimal.Decimal, *apperrors.AppError) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return decimal.Decimal{}, apperrors.NewValidation(
			"invalid_amount",
			"amount is required",
			map[string]any{"field": "amount"},
		)
	}
	if strings.HasPrefix(value, "-") {
		return decimal.Decimal{}, apperrors.NewValidation(
			"amount_negative",
			"amount must not be negative",
			map[string]any{"amount": raw},
		)
	}
	if !humanAmountPattern.MatchString(value) {
		return decimal.Decimal{}, apperrors.NewValidation(
			"invalid_amount",
			"amount must be a plain decimal number",
			map[string]any{"amount": raw},
		)
	}

	value = strings.TrimSuffix(value, ".")
	if strings.HasPrefix(value, ".") {
		value = "0" + value
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, apperrors.NewValidation(
			"invalid_amount",
			"amount must be a plain decimal number",
			map[string]any{"amount": raw, "error": err.Error()},
		)
	}
	return parsed, nil
}

func fractionDigits(amount decimal.Decimal) int {
	text := amount.String()
	dot := strings.IndexByte(text, '.')
	if dot < 0 {
		return 0
	}
	return len(strings.TrimRight(text[dot+1:], "0"))
}
