package valueobjects

import (
	"regexp"
	"strings"

	"blaze/internal/shared_kernel/stackskeys"
	apperrors "blaze/internal/shared_kernel/errors"
)

const (
	maxContractNameLength = 128
	maxAssetNameLength    = 128
)

var (
	contractNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
	assetNamePattern    = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_!?+<>=/*-]*$`)
)

// Principal is a standard principal (wallet address) or a contract principal
// (address plus contract name).
type Principal struct {
	address      stackskeys.Address
	contractName string
}

func ParsePrincipal(raw string) (Principal, *apperrors.AppError) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Principal{}, apperrors.NewValidation(
			"invalid_principal",
			"principal is required",
			nil,
		)
	}

	addressPart, contractName, isContract := strings.Cut(value, ".")
	address, keyErr := stackskeys.ParseAddress(addressPart)
	if keyErr != nil {
		return Principal{}, apperrors.NewValidation(
			"invalid_principal",
			"principal address is invalid",
			map[string]any{"principal": raw, "reason": string(keyErr.Code)},
		)
	}
	if !isContract {
		return Principal{address: address}, nil
	}

	if appErr := validateContractName(contractName); appErr != nil {
		return Principal{}, appErr
	}
	return Principal{address: address, contractName: contractName}, nil
}

func ParseStandardPrincipal(raw string) (Principal, *apperrors.AppError) {
	principal, appErr := ParsePrincipal(raw)
	if appErr != nil {
		return Principal{}, appErr
	}
	if principal.IsContract() {
		return Principal{}, apperrors.NewValidation(
			"invalid_principal",
			"expected a standard principal",
			map[string]any{"principal": raw},
		)
	}
	return principal, nil
}

func ParseContractPrincipal(raw string) (Principal, *apperrors.AppError) {
	principal, appErr := ParsePrincipal(raw)
	if appErr != nil {
		return Principal{}, appErr
	}
	if !principal.IsContract() {
		return Principal{}, apperrors.NewValidation(
			"invalid_principal",
			"expected a contract principal",
			map[string]any{"principal": raw},
		)
	}
	return principal, nil
}

func NewStandardPrincipal(address stackskeys.Address) Principal {
	return Principal{address: address}
}

func validateContractName(name string) *apperrors.AppError {
	if len(name) == 0 || len(name) > maxContractNameLength || !contractNamePattern.MatchString(name) {
		return apperrors.NewValidation(
			"invalid_contract_name",
			"contract name is invalid",
			map[string]any{"contract_name": name},
		)
	}
	return nil
}

func (p Principal) IsZero() bool {
	return p.address == stackskeys.Address{} && p.contractName == ""
}

func (p Principal) IsContract() bool {
	return p.contractName != ""
}

func (p Principal) Address() stackskeys.Address {
	return p.address
}

func (p Principal) AddressString() string {
	return p.address.String()
}

func (p Principal) ContractName() string {
	return p.contractName
}

func (p Principal) String() string {
	if p.contractName == "" {
		return p.address.String()
	}
	return p.address.String() + "." + p.contractName
}

// AssetIdentifier names a fungible token as <contract>::<asset-name>.
type AssetIdentifier struct {
	Contract  Principal
	AssetName string
}

func ParseAssetIdentifier(raw string) (AssetIdentifier, *apperrors.AppError) {
	contractPart, assetName, ok := strings.Cut(strings.TrimSpace(raw), "::")
	if !ok {
		return AssetIdentifier{}, apperrors.NewValidation(
			"invalid_asset_identifier",
			"asset identifier must look like <contract>::<asset-name>",
			map[string]any{"asset_identifier": raw},
		)
	}
	return NewAssetIdentifier(contractPart, assetName)
}

func NewAssetIdentifier(contract, assetName string) (AssetIdentifier, *apperrors.AppError) {
	principal, appErr := ParseContractPrincipal(contract)
	if appErr != nil {
		return AssetIdentifier{}, appErr
	}
	if len(assetName) == 0 || len(assetName) > maxAssetNameLength || !assetNamePattern.MatchString(assetName) {
		return AssetIdentifier{}, apperrors.NewValidation(
			"invalid_asset_identifier",
			"asset name is invalid",
			map[string]any{"asset_name": assetName},
		)
	}
	return AssetIdentifier{Contract: principal, AssetName: assetName}, nil
}

func (a AssetIdentifier) String() string {
	return a.Contract.String() + "::" + a.AssetName
}
