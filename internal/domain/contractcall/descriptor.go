package contractcall

import (
	"blaze/internal/domain/clarity"
	"blaze/internal/domain/postconditions"
	valueobjects "blaze/internal/domain/value_objects"
)

type PostConditionMode string

const (
	PostConditionModeDeny  PostConditionMode = "deny"
	PostConditionModeAllow PostConditionMode = "allow"
)

// Descriptor is everything a wallet needs to prompt for and sign one contract call.
// OnFinish and OnCancel run when the signing boundary reports the outcome.
type Descriptor struct {
	ContractAddress   string                         `json:"contractAddress"`
	ContractName      string                         `json:"contractName"`
	FunctionName      string                         `json:"functionName"`
	FunctionArgs      clarity.Args                   `json:"functionArgs"`
	FunctionArgsHex   []string                       `json:"functionArgsHex"`
	Network           valueobjects.Network           `json:"network"`
	PostConditionMode PostConditionMode              `json:"postConditionMode"`
	PostConditions    []postconditions.PostCondition `json:"postConditions"`
	PostConditionsHex []string                       `json:"postConditionsHex"`

	OnFinish func(txID string) `json:"-"`
	OnCancel func()            `json:"-"`
}

func (d Descriptor) ContractID() string {
	return d.ContractAddress + "." + d.ContractName
}

func (d Descriptor) Finish(txID string) {
	if d.OnFinish != nil {
		d.OnFinish(txID)
	}
}

func (d Descriptor) Cancel() {
	if d.OnCancel != nil {
		d.OnCancel()
	}
}
