//go:build !integration

package dexterity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func baseParams() Params {
	return Params{
		TokenURI:          "https://charisma.rocks/api/v0/metadata/welsh-stx",
		TokenAContract:    ".stx",
		TokenBContract:    "SP3NE50GEXFG9SZGTT51P40X2CKYSZ5CC4ZTZ7A2G.welshcorgicoin-token",
		LPTokenName:       "Welsh STX LP",
		LPTokenSymbol:     "WELSH-STX",
		LPRebatePercent:   "0.3",
		InitialLiquidityA: 1000000,
		InitialLiquidityB: 2500000,
	}
}

func TestGenerateRendersPoolContract(t *testing.T) {
	source, appErr := Generate(baseParams())
	require.Nil(t, appErr)

	expectedFragments := []string{
		";; Title: Welsh STX LP",
		"(impl-trait " + sip010Trait + ")",
		"(define-constant LP_REBATE u3000)",
		"(define-fungible-token WELSH-STX)",
		`(define-data-var token-uri (optional (string-utf8 256)) (some u"https://charisma.rocks/api/v0/metadata/welsh-stx"))`,
		`(ok "Welsh STX LP")`,
		"(try! (stx-transfer? amount sender CONTRACT))",
		"(try! (as-contract (stx-transfer? (get dy delta) CONTRACT sender)))",
		"(try! (contract-call? 'SP3NE50GEXFG9SZGTT51P40X2CKYSZ5CC4ZTZ7A2G.welshcorgicoin-token transfer amount sender CONTRACT none))",
		"(stx-get-balance CONTRACT)",
		"(unwrap-panic (contract-call? 'SP3NE50GEXFG9SZGTT51P40X2CKYSZ5CC4ZTZ7A2G.welshcorgicoin-token get-balance CONTRACT))",
		"(define-read-only (get-swap-quote (amount uint) (opcode (optional (buff 16))))",
		"(try! (add-liquidity u1000000))",
		"(try! (contract-call? 'SP3NE50GEXFG9SZGTT51P40X2CKYSZ5CC4ZTZ7A2G.welshcorgicoin-token transfer u1500000 tx-sender CONTRACT none))",
	}
	for _, fragment := range expectedFragments {
		require.Contains(t, source, fragment)
	}
	require.NotContains(t, source, "Transfer additional token A")
	require.Equal(t, strings.Count(source, "("), strings.Count(source, ")"))
}

func TestGenerateTopsUpTokenA(t *testing.T) {
	params := baseParams()
	params.InitialLiquidityA = 3000000
	params.InitialLiquidityB = 1000000

	source, appErr := Generate(params)
	require.Nil(t, appErr)
	require.Contains(t, source, "(try! (add-liquidity u1000000))")
	require.Contains(t, source, ";; Transfer additional token A to achieve desired ratio")
	require.Contains(t, source, "(try! (stx-transfer? u2000000 tx-sender CONTRACT))")
	require.NotContains(t, source, "Transfer additional token B")
}

func TestGenerateEscapesUserStrings(t *testing.T) {
	params := baseParams()
	params.LPTokenName = `Evil") (define-public (drain)`

	source, appErr := Generate(params)
	require.Nil(t, appErr)
	require.Contains(t, source, `(ok "Evil\") (define-public (drain)")`)
	require.NotContains(t, source, "\n(define-public (drain)")
}

func TestGenerateRejectsInvalidParams(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Params)
		field  string
	}{
		{name: "symbol injection", mutate: func(p *Params) { p.LPTokenSymbol = "LP) (define-public (x)" }, field: "lpTokenSymbol"},
		{name: "bad token", mutate: func(p *Params) { p.TokenBContract = "welsh" }, field: "tokenBContract"},
		{name: "rebate too high", mutate: func(p *Params) { p.LPRebatePercent = "101" }, field: "lpRebatePercent"},
		{name: "missing name", mutate: func(p *Params) { p.LPTokenName = " " }, field: "lpTokenName"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			params := baseParams()
			testCase.mutate(&params)
			_, appErr := Generate(params)
			require.NotNil(t, appErr)
			require.Equal(t, "invalid_contract_params", appErr.Code)
			require.Equal(t, testCase.field, appErr.Details["field"])
		})
	}
}

func TestGenerateRejectsMultilineName(t *testing.T) {
	params := baseParams()
	params.LPTokenName = "line one\nline two"

	_, appErr := Generate(params)
	require.NotNil(t, appErr)
	require.Equal(t, "invalid_contract_params", appErr.Code)
}

func TestSanitizeContractName(t *testing.T) {
	require.Equal(t, "welsh-stx-lp", SanitizeContractName("Welsh STX LP"))
	require.Equal(t, "charisma-pool-v2", SanitizeContractName("Charisma  Pool!! v2"))
	require.Equal(t, "SP2ZNGJ85ENDY6QRHQ5P2D4FXKGZWCKTB2T0Z55KS.welsh-stx-lp", FullContractName("welsh-stx-lp", "SP2ZNGJ85ENDY6QRHQ5P2D4FXKGZWCKTB2T0Z55KS"))
	require.Equal(t, "https://charisma.rocks/api/v0/metadata/SP1.x", TokenURI("SP1.x"))
}
