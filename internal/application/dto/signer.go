package dto

import "blaze/internal/domain/contractcall"

type SignerStatus string

const (
	SignerStatusFinished  SignerStatus = "finished"
	SignerStatusCancelled SignerStatus = "cancelled"
)

type SignContractCallInput struct {
	ActionID   string
	Descriptor contractcall.Descriptor
}

type SignContractCallOutput struct {
	Status SignerStatus `json:"status"`
	TxID   string       `json:"txId,omitempty"`
}
