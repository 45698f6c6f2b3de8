//go:build !integration

package postconditions

import (
	"encoding/json"
	"testing"

	valueobjects "blaze/internal/domain/value_objects"

	"github.com/stretchr/testify/require"
)

const (
	senderAddress  = "SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7"
	welshAsset     = "SP3NE50GEXFG9SZGTT51P40X2CKYSZ5CC4ZTZ7A2G.welshcorgicoin-token::welshcorgicoin"
	stakedAsset    = "SP2ZNGJ85ENDY6QRHQ5P2D4FXKGZWCKTB2T0Z55KS.liquid-staked-welsh-v2::liquid-staked-token"
	stakingAddress = "SP2ZNGJ85ENDY6QRHQ5P2D4FXKGZWCKTB2T0Z55KS.liquid-staked-welsh-v2"
	poolCore       = "SP1Y5YSTAHZ88XYK1VPDH24GY0HPX5J4JECTMY4A1.univ2-core"
)

func mustPrincipal(t *testing.T, raw string) valueobjects.Principal {
	t.Helper()
	principal, appErr := valueobjects.ParsePrincipal(raw)
	require.Nil(t, appErr)
	return principal
}

func mustAsset(t *testing.T, raw string) Asset {
	t.Helper()
	identifier, appErr := valueobjects.ParseAssetIdentifier(raw)
	require.Nil(t, appErr)
	return FungibleToken(identifier)
}

func TestBuildTransferProducesSingleExactLeg(t *testing.T) {
	sender := mustPrincipal(t, senderAddress)
	amount := valueobjects.BaseUnitsFromUint64(1500000)

	conditions, appErr := Build(Transfer{Sender: sender, Asset: mustAsset(t, welshAsset), Amount: amount})
	require.Nil(t, appErr)
	require.Len(t, conditions, 1)
	require.Equal(t, ComparatorEq, conditions[0].Comparator)
	require.Equal(t, sender.String(), conditions[0].Principal.String())
	require.Equal(t, "1500000", conditions[0].Quantity.String())
	require.Equal(t, welshAsset, conditions[0].Asset.Identifier.String())
}

func TestBuildDepositAndWithdrawLegs(t *testing.T) {
	sender := mustPrincipal(t, senderAddress)
	blaze := mustPrincipal(t, "SP2ZNGJ85ENDY6QRHQ5P2D4FXKGZWCKTB2T0Z55KS.blaze-welsh-v0")
	amount := valueobjects.BaseUnitsFromUint64(10000000)

	deposit, appErr := Build(Deposit{Sender: sender, Asset: mustAsset(t, welshAsset), Amount: amount})
	require.Nil(t, appErr)
	require.Len(t, deposit, 1)
	require.Equal(t, sender.String(), deposit[0].Principal.String())
	require.Equal(t, ComparatorEq, deposit[0].Comparator)

	withdraw, appErr := Build(Withdraw{Contract: blaze, Asset: mustAsset(t, welshAsset), Amount: amount})
	require.Nil(t, appErr)
	require.Len(t, withdraw, 1)
	require.Equal(t, blaze.String(), withdraw[0].Principal.String())
	require.Equal(t, ComparatorEq, withdraw[0].Comparator)
}

func TestBuildUnstakeUsesFloorOfRate(t *testing.T) {
	rate, appErr := valueobjects.ParseExchangeRate("1.234567")
	require.Nil(t, appErr)

	conditions, appErr := Build(Unstake{
		Sender:          mustPrincipal(t, senderAddress),
		StakingContract: mustPrincipal(t, stakingAddress),
		StakedAsset:     mustAsset(t, stakedAsset),
		BaseAsset:       mustAsset(t, welshAsset),
		Amount:          valueobjects.BaseUnitsFromUint64(999999),
		ExchangeRate:    &rate,
	})
	require.Nil(t, appErr)
	require.Len(t, conditions, 2)
	require.Equal(t, ComparatorEq, conditions[0].Comparator)
	require.Equal(t, "999999", conditions[0].Quantity.String())
	require.Equal(t, ComparatorGte, conditions[1].Comparator)
	require.Equal(t, stakingAddress, conditions[1].Principal.String())
	require.Equal(t, "1234565", conditions[1].Quantity.String())
	require.Equal(t, welshAsset, conditions[1].Asset.Identifier.String())
}

func TestBuildUnstakeWithoutRateIsBlocked(t *testing.T) {
	_, appErr := Build(Unstake{
		Sender:          mustPrincipal(t, senderAddress),
		StakingContract: mustPrincipal(t, stakingAddress),
		StakedAsset:     mustAsset(t, stakedAsset),
		BaseAsset:       mustAsset(t, welshAsset),
		Amount:          valueobjects.BaseUnitsFromUint64(10),
	})
	require.NotNil(t, appErr)
	require.Equal(t, "exchange_rate_unavailable", appErr.Code)
}

func TestBuildSwapLegs(t *testing.T) {
	conditions, appErr := Build(Swap{
		Sender:       mustPrincipal(t, senderAddress),
		PoolCore:     mustPrincipal(t, poolCore),
		AssetIn:      STX(),
		AssetOut:     mustAsset(t, welshAsset),
		AmountIn:     valueobjects.BaseUnitsFromUint64(2000000),
		MinAmountOut: valueobjects.BaseUnitsFromUint64(5000),
		MaxFee:       valueobjects.BaseUnitsFromUint64(20000),
	})
	require.Nil(t, appErr)
	require.Len(t, conditions, 3)

	require.Equal(t, ComparatorLte, conditions[0].Comparator)
	require.Equal(t, AssetTypeSTX, conditions[0].Asset.Type)
	require.Equal(t, ComparatorGte, conditions[1].Comparator)
	require.Equal(t, poolCore, conditions[1].Principal.String())
	require.Equal(t, ComparatorLte, conditions[2].Comparator)
	require.Equal(t, "20000", conditions[2].Quantity.String())
}

func TestBuildSwapWithoutQuoteIsBlocked(t *testing.T) {
	_, appErr := Build(Swap{
		Sender:   mustPrincipal(t, senderAddress),
		PoolCore: mustPrincipal(t, poolCore),
		AssetIn:  STX(),
		AssetOut: mustAsset(t, welshAsset),
		AmountIn: valueobjects.BaseUnitsFromUint64(1),
	})
	require.NotNil(t, appErr)
	require.Equal(t, "swap_quote_unavailable", appErr.Code)
}

func TestBuildRejectsZeroAmount(t *testing.T) {
	_, appErr := Build(Deposit{Sender: mustPrincipal(t, senderAddress), Asset: STX()})
	require.NotNil(t, appErr)
	require.Equal(t, "amount_zero", appErr.Code)
}

func TestBuildBatchTransferIsEmpty(t *testing.T) {
	conditions, appErr := Build(BatchTransfer{})
	require.Nil(t, appErr)
	require.Empty(t, conditions)

	_, appErr = Build(nil)
	require.NotNil(t, appErr)
}

func TestPostConditionJSON(t *testing.T) {
	condition := PostCondition{
		Principal:  mustPrincipal(t, senderAddress),
		Comparator: ComparatorEq,
		Quantity:   valueobjects.BaseUnitsFromUint64(42),
		Asset:      mustAsset(t, welshAsset),
	}
	encoded, err := json.Marshal(condition)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"principal":"SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7",
		"comparator":"eq",
		"quantity":"42",
		"assetType":"ft",
		"assetIdentifier":"SP3NE50GEXFG9SZGTT51P40X2CKYSZ5CC4ZTZ7A2G.welshcorgicoin-token::welshcorgicoin"
	}`, string(encoded))

	stx := PostCondition{Principal: condition.Principal, Comparator: ComparatorLte, Quantity: condition.Quantity, Asset: STX()}
	encoded, err = json.Marshal(stx)
	require.NoError(t, err)
	require.NotContains(t, string(encoded), "assetIdentifier")
}

func TestEncodeHexSTXCondition(t *testing.T) {
	condition := PostCondition{
		Principal:  mustPrincipal(t, senderAddress),
		Comparator: ComparatorLte,
		Quantity:   valueobjects.BaseUnitsFromUint64(1),
		Asset:      STX(),
	}

	encoded, err := condition.EncodeHex()
	require.NoError(t, err)
	require.Equal(t, "0x000216a46ff88886c2ef9762d970b4d2c63678835bd39d050000000000000001", encoded)
}

func TestEncodeHexRejectsQuantityAbove64Bits(t *testing.T) {
	quantity, appErr := valueobjects.ParseBaseUnits("18446744073709551616")
	require.Nil(t, appErr)

	_, err := PostCondition{
		Principal:  mustPrincipal(t, senderAddress),
		Comparator: ComparatorEq,
		Quantity:   quantity,
		Asset:      STX(),
	}.EncodeHex()
	require.Error(t, err)
}
