package dto

import (
	"blaze/internal/domain/entities"
	valueobjects "blaze/internal/domain/value_objects"
)

type GetBalanceQuery struct {
	Token   string
	Address string
}

type GetBalanceOutput struct {
	Token   string                 `json:"token"`
	Address string                 `json:"address"`
	Balance valueobjects.BaseUnits `json:"balance"`
	// Degraded is set when the chain read failed and Balance is the zero fallback.
	Degraded bool `json:"degraded"`
}

type GetNonceQuery struct {
	Token   string
	Address string
}

type GetNonceOutput struct {
	Token   string `json:"token"`
	Address string `json:"address"`
	Nonce   uint64 `json:"nonce"`
}

type GetUserBalancesQuery struct {
	Address string
}

type GetUserBalancesOutput struct {
	Address  string                              `json:"address"`
	Balances map[string]entities.BalanceSnapshot `json:"balances"`
}
