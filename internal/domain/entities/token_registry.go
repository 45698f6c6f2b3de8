package entities

import (
	"sort"
	"strings"

	apperrors "blaze/internal/shared_kernel/errors"
)

type TokenRegistry struct {
	tokens     []Token
	bySymbol   map[string]int
	byContract map[string]int
}

func DefaultTokenDefinitions() []TokenDefinition {
	return []TokenDefinition{
		{
			Symbol:        "WELSH",
			Name:          "Welshcorgicoin",
			Icon:          "/welsh-logo.png",
			Contract:      "SP3NE50GEXFG9SZGTT51P40X2CKYSZ5CC4ZTZ7A2G.welshcorgicoin-token",
			Identifier:    "welshcorgicoin",
			Decimals:      6,
			BlazeContract: "SP2ZNGJ85ENDY6QRHQ5P2D4FXKGZWCKTB2T0Z55KS.blaze-welsh-v0",
			MaxDeposit:    "10",
		},
		{
			Symbol:     "sWELSH",
			Name:       "Liquid Staked Welsh",
			Icon:       "/liquid-welsh-logo.png",
			Contract:   "SP2ZNGJ85ENDY6QRHQ5P2D4FXKGZWCKTB2T0Z55KS.liquid-staked-welsh-v2",
			Identifier: "liquid-staked-token",
			Decimals:   6,
			MaxDeposit: "10",
			BaseSymbol: "WELSH",
		},
		{
			Symbol:     "STX",
			Name:       "Stacks",
			Icon:       "/stx-logo.png",
			Decimals:   6,
			MaxDeposit: "10",
			IsSTX:      true,
		},
	}
}

func NewTokenRegistry(definitions []TokenDefinition) (*TokenRegistry, *apperrors.AppError) {
	if len(definitions) == 0 {
		return nil, apperrors.NewValidation(
			"invalid_token_registry",
			"token registry must contain at least one token",
			nil,
		)
	}

	registry := &TokenRegistry{
		tokens:     make([]Token, 0, len(definitions)),
		bySymbol:   make(map[string]int, len(definitions)),
		byContract: make(map[string]int, len(definitions)),
	}
	for _, definition := range definitions {
		token, appErr := NewToken(definition)
		if appErr != nil {
			return nil, appErr
		}

		symbolKey := strings.ToUpper(token.Symbol())
		if _, exists := registry.bySymbol[symbolKey]; exists {
			return nil, apperrors.NewValidation(
				"invalid_token_registry",
				"token symbols must be unique",
				map[string]any{"symbol": token.Symbol()},
			)
		}

		registry.bySymbol[symbolKey] = len(registry.tokens)
		registry.byContract[token.ContractID()] = len(registry.tokens)
		registry.tokens = append(registry.tokens, token)
	}

	for _, token := range registry.tokens {
		if !token.IsStaked() {
			continue
		}
		if _, ok := registry.BySymbol(token.Definition.BaseSymbol); !ok {
			return nil, apperrors.NewValidation(
				"invalid_token_registry",
				"staked token references an unknown base token",
				map[string]any{"symbol": token.Symbol(), "base_symbol": token.Definition.BaseSymbol},
			)
		}
	}

	return registry, nil
}

func (r *TokenRegistry) All() []Token {
	out := make([]Token, len(r.tokens))
	copy(out, r.tokens)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Symbol() < out[j].Symbol()
	})
	return out
}

func (r *TokenRegistry) BySymbol(symbol string) (Token, bool) {
	index, ok := r.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return Token{}, false
	}
	return r.tokens[index], true
}

// ByContract accepts either a contract principal or a full asset identifier.
func (r *TokenRegistry) ByContract(contract string) (Token, bool) {
	key, _, _ := strings.Cut(strings.TrimSpace(contract), "::")
	index, ok := r.byContract[key]
	if !ok {
		return Token{}, false
	}
	return r.tokens[index], true
}

// Resolve looks a token up by symbol first, then by contract.
func (r *TokenRegistry) Resolve(reference string) (Token, *apperrors.AppError) {
	if token, ok := r.BySymbol(reference); ok {
		return token, nil
	}
	if token, ok := r.ByContract(reference); ok {
		return token, nil
	}
	return Token{}, apperrors.NewNotFound(
		"token_not_found",
		"token is not in the registry",
		map[string]any{"token": reference},
	)
}

func (r *TokenRegistry) BlazeTokens() []Token {
	out := make([]Token, 0, len(r.tokens))
	for _, token := range r.All() {
		if token.BlazeContract != nil {
			out = append(out, token)
		}
	}
	return out
}

// StakedFor returns the liquid-staked token whose base is the given symbol.
func (r *TokenRegistry) StakedFor(baseSymbol string) (Token, bool) {
	for _, token := range r.tokens {
		if token.IsStaked() && strings.EqualFold(token.Definition.BaseSymbol, baseSymbol) {
			return token, true
		}
	}
	return Token{}, false
}
