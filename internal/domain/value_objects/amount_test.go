//go:build !integration

package valueobjects

import (
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScaleAmountShiftsDigitsExactly(t *testing.T) {
	testCases := []struct {
		raw      string
		decimals int
		expected string
	}{
		{raw: "1", decimals: 6, expected: "1000000"},
		{raw: "0.000001", decimals: 6, expected: "1"},
		{raw: "9.999999", decimals: 6, expected: "9999999"},
		{raw: "0.1", decimals: 18, expected: "100000000000000000"},
		{raw: "0.3", decimals: 6, expected: "300000"},
		{raw: "1.005", decimals: 3, expected: "1005"},
		{raw: "42", decimals: 0, expected: "42"},
		{raw: ".5", decimals: 1, expected: "5"},
		{raw: "7.", decimals: 2, expected: "700"},
		{raw: "10.0000000", decimals: 6, expected: "10000000"},
		{raw: "999999.999999", decimals: 6, expected: "999999999999"},
		{raw: "1000000", decimals: 6, expected: "1000000000000"},
		{raw: "123456789012.345678901234567891", decimals: 18, expected: "123456789012345678901234567891"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(fmt.Sprintf("%s_%d", testCase.raw, testCase.decimals), func(t *testing.T) {
			scaled, appErr := ScaleAmount(testCase.raw, ScaleOptions{Decimals: testCase.decimals})
			require.Nil(t, appErr)
			require.Equal(t, testCase.expected, scaled.String())
		})
	}
}

func TestScaleAmountMatchesDigitShiftForAllDecimals(t *testing.T) {
	for decimals := 0; decimals <= MaxTokenDecimals; decimals++ {
		for _, whole := range []string{"0", "1", "7", "1000000", "999999999999"} {
			fraction := strings.Repeat("9", decimals)
			raw := whole
			if decimals > 0 {
				raw = whole + "." + fraction
			}

			scaled, appErr := ScaleAmount(raw, ScaleOptions{Decimals: decimals})
			require.Nil(t, appErr, "raw=%s decimals=%d", raw, decimals)

			expected, ok := new(big.Int).SetString(strings.TrimLeft(whole+fraction, "0"), 10)
			if !ok {
				expected = big.NewInt(0)
			}
			require.Equal(t, expected.String(), scaled.String(), "raw=%s decimals=%d", raw, decimals)
		}
	}
}

func TestScaleAmountRejectsExcessPrecision(t *testing.T) {
	_, appErr := ScaleAmount("10.0000001", ScaleOptions{Decimals: 6})
	require.NotNil(t, appErr)
	require.Equal(t, "amount_precision_exceeded", appErr.Code)
}

func TestScaleAmountTruncatesExcessPrecision(t *testing.T) {
	scaled, appErr := ScaleAmount("10.0000001", ScaleOptions{Decimals: 6, TruncateFraction: true})
	require.Nil(t, appErr)
	require.Equal(t, "10000000", scaled.String())
}

func TestScaleAmountRejectsAboveCap(t *testing.T) {
	_, appErr := ScaleAmount("10.000001", ScaleOptions{Decimals: 6, Cap: "10"})
	require.NotNil(t, appErr)
	require.Equal(t, "amount_exceeds_cap", appErr.Code)

	scaled, appErr := ScaleAmount("10", ScaleOptions{Decimals: 6, Cap: "10"})
	require.Nil(t, appErr)
	require.Equal(t, "10000000", scaled.String())
}

func TestScaleAmountClampsToCap(t *testing.T) {
	scaled, appErr := ScaleAmount("250", ScaleOptions{Decimals: 6, Cap: "10", ClampToCap: true})
	require.Nil(t, appErr)
	require.Equal(t, "10000000", scaled.String())
}

func TestScaleAmountRejectsInvalidInput(t *testing.T) {
	testCases := []struct {
		raw  string
		code string
	}{
		{raw: "", code: "invalid_amount"},
		{raw: "   ", code: "invalid_amount"},
		{raw: "abc", code: "invalid_amount"},
		{raw: "1e6", code: "invalid_amount"},
		{raw: "1,5", code: "invalid_amount"},
		{raw: ".", code: "invalid_amount"},
		{raw: "-1", code: "amount_negative"},
		{raw: "-0.5", code: "amount_negative"},
	}

	for _, testCase := range testCases {
		_, appErr := ScaleAmount(testCase.raw, ScaleOptions{Decimals: 6})
		require.NotNil(t, appErr, "raw=%q", testCase.raw)
		require.Equal(t, testCase.code, appErr.Code, "raw=%q", testCase.raw)
	}
}

func TestScaleAmountRejectsInvalidDecimals(t *testing.T) {
	_, appErr := ScaleAmount("1", ScaleOptions{Decimals: 19})
	require.NotNil(t, appErr)
	require.Equal(t, "invalid_decimals", appErr.Code)

	_, appErr = ScaleAmount("1", ScaleOptions{Decimals: -1})
	require.NotNil(t, appErr)
	require.Equal(t, "invalid_decimals", appErr.Code)
}

func TestFormatBaseUnits(t *testing.T) {
	require.Equal(t, "1.5", FormatBaseUnits(BaseUnitsFromUint64(1500000), 6))
	require.Equal(t, "0.000001", FormatBaseUnits(BaseUnitsFromUint64(1), 6))
	require.Equal(t, "0", FormatBaseUnits(BaseUnitsFromUint64(0), 6))
	require.Equal(t, "42", FormatBaseUnits(BaseUnitsFromUint64(42), 0))
}

func TestParseBaseUnitsBounds(t *testing.T) {
	maxValue := "340282366920938463463374607431768211455"
	parsed, appErr := ParseBaseUnits(maxValue)
	require.Nil(t, appErr)
	require.Equal(t, maxValue, parsed.String())

	_, appErr = ParseBaseUnits("340282366920938463463374607431768211456")
	require.NotNil(t, appErr)
	require.Equal(t, "amount_out_of_range", appErr.Code)

	_, appErr = ParseBaseUnits("12.5")
	require.NotNil(t, appErr)
	require.Equal(t, "invalid_amount", appErr.Code)
}

func TestBaseUnitsSubRejectsUnderflow(t *testing.T) {
	_, appErr := BaseUnitsFromUint64(5).Sub(BaseUnitsFromUint64(6))
	require.NotNil(t, appErr)
	require.Equal(t, "amount_negative", appErr.Code)
}
