package entities

import valueobjects "blaze/internal/domain/value_objects"

// BalanceSnapshot is a per-token view of what an address holds on chain (Total) and
// in the off-chain ledger (Credit, Nonce).
type BalanceSnapshot struct {
	TokenContract string                  `json:"tokenContract"`
	Total         valueobjects.BaseUnits  `json:"total"`
	Credit        *valueobjects.BaseUnits `json:"credit,omitempty"`
	Nonce         *uint64                 `json:"nonce,omitempty"`
}
