package dto

type ListTokensQuery struct{}

type ListTokensOutput struct {
	Tokens []TokenView `json:"tokens"`
}

type TokenView struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Icon          string `json:"icon,omitempty"`
	ContractID    string `json:"contract"`
	Identifier    string `json:"identifier,omitempty"`
	Decimals      int    `json:"decimals"`
	BlazeContract string `json:"blazeContract,omitempty"`
	MaxDeposit    string `json:"maxDeposit"`
	IsSTX         bool   `json:"isSTX"`
	BaseSymbol    string `json:"baseSymbol,omitempty"`
}
