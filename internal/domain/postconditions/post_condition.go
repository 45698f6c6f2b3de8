package postconditions

import (
	"encoding/json"

	valueobjects "blaze/internal/domain/value_objects"
)

type Comparator string

const (
	ComparatorEq  Comparator = "eq"
	ComparatorLte Comparator = "lte"
	ComparatorGte Comparator = "gte"
)

type AssetType string

const (
	AssetTypeFT  AssetType = "ft"
	AssetTypeSTX AssetType = "stx"
)

type Asset struct {
	Type       AssetType
	Identifier valueobjects.AssetIdentifier
}

func STX() Asset {
	return Asset{Type: AssetTypeSTX}
}

func FungibleToken(identifier valueobjects.AssetIdentifier) Asset {
	return Asset{Type: AssetTypeFT, Identifier: identifier}
}

// PostCondition asserts how much of an asset a principal sends. Quantity is in base units.
type PostCondition struct {
	Principal  valueobjects.Principal
	Comparator Comparator
	Quantity   valueobjects.BaseUnits
	Asset      Asset
}

type postConditionJSON struct {
	Principal       string                 `json:"principal"`
	Comparator      Comparator             `json:"comparator"`
	Quantity        valueobjects.BaseUnits `json:"quantity"`
	AssetType       AssetType              `json:"assetType"`
	AssetIdentifier string                 `json:"assetIdentifier,omitempty"`
}

func (p PostCondition) MarshalJSON() ([]byte, error) {
	view := postConditionJSON{
		Principal:  p.Principal.String(),
		Comparator: p.Comparator,
		Quantity:   p.Quantity,
		AssetType:  p.Asset.Type,
	}
	if p.Asset.Type == AssetTypeFT {
		view.AssetIdentifier = p.Asset.Identifier.String()
	}
	return json.Marshal(view)
}
