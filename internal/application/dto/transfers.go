package dto

import (
	"bytes"
	"encoding/json"

	valueobjects "blaze/internal/domain/value_objects"
)

type RelayTransferCommand struct {
	Signature string      `json:"signature"`
	From      string      `json:"from"`
	Token     string      `json:"token"`
	To        string      `json:"to"`
	Amount    AmountInput `json:"amount"`
	Nonce     uint64      `json:"nonce"`
}

// AmountInput is a raw base-unit amount sent either as a JSON string or a JSON
// number. Validation is left to valueobjects.ParseBaseUnits.
type AmountInput string

func (a *AmountInput) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		*a = AmountInput(raw)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return err
	}
	*a = AmountInput(number.String())
	return nil
}

type RelayTransferOutput struct {
	Success     bool             `json:"success"`
	Queued      bool             `json:"queued"`
	QueueLength int              `json:"queueLength"`
	Contract    string           `json:"contract"`
	Token       string           `json:"token"`
	Nonce       uint64           `json:"nonce"`
	Balances    TransferBalances `json:"balances"`
}

type TransferBalances struct {
	From valueobjects.BaseUnits `json:"from"`
	To   valueobjects.BaseUnits `json:"to"`
}

// ApplyTransferOutput is what the ledger reports after a transfer is booked and queued.
type ApplyTransferOutput struct {
	FromBalance valueobjects.BaseUnits
	ToBalance   valueobjects.BaseUnits
	Nonce       uint64
	QueueLength int
}

type FaucetCommand struct {
	Address string `json:"address"`
}

type FaucetOutput struct {
	Token      string                 `json:"token"`
	Amount     valueobjects.BaseUnits `json:"amount"`
	NewBalance valueobjects.BaseUnits `json:"newBalance"`
}

type SettleTransfersCommand struct {
	BatchSize int
}

type SettleTransfersOutput struct {
	BatchesSubmitted int
	TransfersSettled int
	BatchesFailed    int
}
