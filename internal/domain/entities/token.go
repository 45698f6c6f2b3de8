package entities

import (
	"strings"

	"blaze/internal/domain/postconditions"
	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
)

const defaultMaxDeposit = "10"

// TokenDefinition is the configuration form of a token descriptor.
type TokenDefinition struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Icon          string `json:"icon,omitempty"`
	Contract      string `json:"contract"`
	Identifier    string `json:"identifier"`
	Decimals      int    `json:"decimals"`
	BlazeContract string `json:"blazeContract,omitempty"`
	MaxDeposit    string `json:"maxDeposit,omitempty"`
	IsSTX         bool   `json:"isSTX,omitempty"`
	// BaseSymbol marks a liquid-staked token; its contract is the staking contract.
	BaseSymbol string `json:"baseSymbol,omitempty"`
}

type Token struct {
	Definition    TokenDefinition
	Contract      valueobjects.Principal
	BlazeContract *valueobjects.Principal
	asset         postconditions.Asset
}

func NewToken(definition TokenDefinition) (Token, *apperrors.AppError) {
	definition.Symbol = strings.TrimSpace(definition.Symbol)
	if definition.Symbol == "" {
		return Token{}, apperrors.NewValidation(
			"invalid_token",
			"token symbol is required",
			nil,
		)
	}
	if definition.Decimals < 0 || definition.Decimals > valueobjects.MaxTokenDecimals {
		return Token{}, apperrors.NewValidation(
			"invalid_token",
			"token decimals must be between 0 and 18",
			map[string]any{"symbol": definition.Symbol, "decimals": definition.Decimals},
		)
	}
	if definition.MaxDeposit == "" {
		definition.MaxDeposit = defaultMaxDeposit
	}

	token := Token{Definition: definition}
	if definition.IsSTX {
		token.asset = postconditions.STX()
	} else {
		identifier, appErr := valueobjects.NewAssetIdentifier(definition.Contract, definition.Identifier)
		if appErr != nil {
			appErr.Details = mergeDetails(appErr.Details, map[string]any{"symbol": definition.Symbol})
			return Token{}, appErr
		}
		token.Contract = identifier.Contract
		token.asset = postconditions.FungibleToken(identifier)
	}

	if strings.TrimSpace(definition.BlazeContract) != "" {
		blaze, appErr := valueobjects.ParseContractPrincipal(definition.BlazeContract)
		if appErr != nil {
			appErr.Details = mergeDetails(appErr.Details, map[string]any{"symbol": definition.Symbol})
			return Token{}, appErr
		}
		token.BlazeContract = &blaze
	}

	return token, nil
}

func (t Token) Symbol() string {
	return t.Definition.Symbol
}

func (t Token) Decimals() int {
	return t.Definition.Decimals
}

// ContractID is the key tokens are addressed by in requests and ledgers.
func (t Token) ContractID() string {
	if t.Definition.IsSTX {
		return "stx"
	}
	return t.Contract.String()
}

func (t Token) Asset() postconditions.Asset {
	return t.asset
}

func (t Token) IsStaked() bool {
	return t.Definition.BaseSymbol != ""
}

func (t Token) ScaleOptions() valueobjects.ScaleOptions {
	return valueobjects.ScaleOptions{
		Decimals: t.Definition.Decimals,
		Cap:      t.Definition.MaxDeposit,
	}
}

func mergeDetails(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range extra {
		out[key] = value
	}
	return out
}
