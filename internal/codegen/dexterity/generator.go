package dexterity

import (
	"regexp"
	"strings"

	ast "blaze/internal/codegen/clarityast"
	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"

	"github.com/shopspring/decimal"
)

const (
	STXContract = ".stx"

	sip010Trait        = "'SP2ZNGJ85ENDY6QRHQ5P2D4FXKGZWCKTB2T0Z55KS.charisma-traits-v1.sip010-ft-trait"
	liquidityPoolTrait = "'SP2ZNGJ85ENDY6QRHQ5P2D4FXKGZWCKTB2T0Z55KS.dexterity-traits-v0.liquidity-pool-trait"
	tokenURIBase       = "https://charisma.rocks/api/v0/metadata/"
)

var (
	tokenSymbolPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]{0,39}$`)
	nonAlnumSpace      = regexp.MustCompile(`[^a-zA-Z0-9 ]`)
	whitespaceRun      = regexp.MustCompile(`\s+`)
	precision          = decimal.NewFromInt(1000000)
)

// Params describes a two-token liquidity pool. Token contracts are contract principals
// or ".stx" for native STX; initial liquidity is in base units.
type Params struct {
	TokenURI          string `json:"tokenUri" mapstructure:"token-uri"`
	TokenAContract    string `json:"tokenAContract" mapstructure:"token-a"`
	TokenBContract    string `json:"tokenBContract" mapstructure:"token-b"`
	LPTokenName       string `json:"lpTokenName" mapstructure:"lp-token-name"`
	LPTokenSymbol     string `json:"lpTokenSymbol" mapstructure:"lp-token-symbol"`
	LPRebatePercent   string `json:"lpRebatePercent" mapstructure:"lp-rebate-percent"`
	InitialLiquidityA uint64 `json:"initialLiquidityA" mapstructure:"initial-liquidity-a"`
	InitialLiquidityB uint64 `json:"initialLiquidityB" mapstructure:"initial-liquidity-b"`
}

type token struct {
	isSTX    bool
	contract string
}

// Generate renders the Clarity source of a Dexterity liquidity pool.
func Generate(params Params) (string, *apperrors.AppError) {
	tokenA, appErr := parseToken(params.TokenAContract, "tokenAContract")
	if appErr != nil {
		return "", appErr
	}
	tokenB, appErr := parseToken(params.TokenBContract, "tokenBContract")
	if appErr != nil {
		return "", appErr
	}
	if !tokenSymbolPattern.MatchString(params.LPTokenSymbol) {
		return "", invalidParam("lpTokenSymbol", "lp token symbol must be a clarity identifier")
	}
	if strings.TrimSpace(params.LPTokenName) == "" {
		return "", invalidParam("lpTokenName", "lp token name is required")
	}
	rebate, appErr := rebateRaw(params.LPRebatePercent)
	if appErr != nil {
		return "", appErr
	}

	program := ast.Program{}
	program = append(program, header(params.LPTokenName)...)
	program = append(program, constants(rebate, params)...)
	program = append(program, sip010Functions(params.LPTokenName, params.LPTokenSymbol)...)
	program = append(program, coreFunctions()...)
	program = append(program, executeFunctions(tokenA, tokenB, params.LPTokenSymbol)...)
	program = append(program, helperFunctions(tokenA, tokenB)...)
	program = append(program, quoteFunctions(params.LPTokenSymbol)...)
	program = append(program, initialization(tokenA, tokenB, params.InitialLiquidityA, params.InitialLiquidityB)...)

	source, err := ast.Print(program)
	if err != nil {
		return "", apperrors.NewValidation(
			"invalid_contract_params",
			"contract parameters cannot be rendered",
			map[string]any{"error": err.Error()},
		)
	}
	return source, nil
}

// SanitizeContractName lowercases, drops everything but letters, digits and spaces,
// then joins words with dashes.
func SanitizeContractName(name string) string {
	sanitized := nonAlnumSpace.ReplaceAllString(strings.ToLower(name), "")
	return whitespaceRun.ReplaceAllString(sanitized, "-")
}

func FullContractName(sanitizedName, stxAddress string) string {
	return stxAddress + "." + sanitizedName
}

func TokenURI(contractID string) string {
	return tokenURIBase + contractID
}

func parseToken(raw, field string) (token, *apperrors.AppError) {
	value := strings.TrimSpace(raw)
	if value == STXContract {
		return token{isSTX: true}, nil
	}
	principal, appErr := valueobjects.ParseContractPrincipal(value)
	if appErr != nil {
		return token{}, invalidParam(field, "token must be a contract principal or .stx")
	}
	return token{contract: principal.String()}, nil
}

func rebateRaw(percent string) (string, *apperrors.AppError) {
	if strings.TrimSpace(percent) == "" {
		percent = "0"
	}
	value, err := decimal.NewFromString(strings.TrimSpace(percent))
	if err != nil || value.IsNegative() || value.GreaterThan(decimal.NewFromInt(100)) {
		return "", invalidParam("lpRebatePercent", "lp rebate must be a percentage between 0 and 100")
	}
	return value.Div(decimal.NewFromInt(100)).Mul(precision).Floor().String(), nil
}

func invalidParam(field, message string) *apperrors.AppError {
	return apperrors.NewValidation("invalid_contract_params", message, map[string]any{"field": field})
}

func transferIn(t token, amount, sender, recipient ast.Node) ast.Node {
	if t.isSTX {
		return ast.L(ast.A("try!"), ast.L(ast.A("stx-transfer?"), amount, sender, recipient))
	}
	return ast.L(ast.A("try!"), ast.L(ast.A("contract-call?"), ast.A("'"+t.contract), ast.A("transfer"), amount, sender, recipient, ast.A("none")))
}

func transferOut(t token, amount, sender, recipient ast.Node) ast.Node {
	if t.isSTX {
		return ast.L(ast.A("try!"), ast.L(ast.A("as-contract"), ast.L(ast.A("stx-transfer?"), amount, sender, recipient)))
	}
	return ast.L(ast.A("try!"), ast.L(ast.A("as-contract"),
		ast.L(ast.A("contract-call?"), ast.A("'"+t.contract), ast.A("transfer"), amount, sender, recipient, ast.A("none"))))
}

func balanceOf(t token, owner ast.Node) ast.Node {
	if t.isSTX {
		return ast.L(ast.A("stx-get-balance"), owner)
	}
	return ast.L(ast.A("unwrap-panic"), ast.L(ast.A("contract-call?"), ast.A("'"+t.contract), ast.A("get-balance"), owner))
}
