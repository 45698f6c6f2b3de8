package dto

import (
	"blaze/internal/domain/contractcall"
	"blaze/internal/domain/entities"
	valueobjects "blaze/internal/domain/value_objects"
)

// BuildContractCallCommand carries human-entered values; amounts are decimal strings
// in the token's display units.
type BuildContractCallCommand struct {
	Operation string `json:"-"`
	Sender    string `json:"sender"`
	Token     string `json:"token"`
	TokenOut  string `json:"tokenOut,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	Amount    string `json:"amount"`
	// MinAmountOut bounds a swap directly; ExpectedAmountOut derives the bound from the
	// session slippage instead.
	MinAmountOut      string `json:"minAmountOut,omitempty"`
	ExpectedAmountOut string `json:"expectedAmountOut,omitempty"`
	PostConditionMode string `json:"postConditionMode,omitempty"`
	Truncate          bool   `json:"truncate,omitempty"`
	Clamp             bool   `json:"clamp,omitempty"`
}

type ContractCallOutput struct {
	Operation    string                  `json:"operation"`
	Sender       string                  `json:"sender,omitempty"`
	Amount       valueobjects.BaseUnits  `json:"amount"`
	ExchangeRate string                  `json:"exchangeRate,omitempty"`
	Descriptor   contractcall.Descriptor `json:"descriptor"`
}

type SubmitContractCallOutput struct {
	Action     entities.Action         `json:"action"`
	Descriptor contractcall.Descriptor `json:"descriptor"`
}
