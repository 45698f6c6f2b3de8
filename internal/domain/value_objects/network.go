package valueobjects

import (
	"strings"

	"blaze/internal/shared_kernel/stackskeys"
	apperrors "blaze/internal/shared_kernel/errors"
)

type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

const (
	chainIDMainnet uint32 = 0x00000001
	chainIDTestnet uint32 = 0x80000000
)

func ParseNetwork(raw string) (Network, *apperrors.AppError) {
	switch Network(strings.ToLower(strings.TrimSpace(raw))) {
	case NetworkMainnet:
		return NetworkMainnet, nil
	case NetworkTestnet:
		return NetworkTestnet, nil
	default:
		return "", apperrors.NewValidation(
			"unsupported_network",
			"network must be mainnet or testnet",
			map[string]any{"network": raw},
		)
	}
}

func (n Network) ChainID() uint32 {
	if n == NetworkTestnet {
		return chainIDTestnet
	}
	return chainIDMainnet
}

func (n Network) SingleSigVersion() stackskeys.AddressVersion {
	if n == NetworkTestnet {
		return stackskeys.VersionTestnetSingleSig
	}
	return stackskeys.VersionMainnetSingleSig
}

func (n Network) DefaultAPIBaseURL() string {
	if n == NetworkTestnet {
		return "https://api.testnet.hiro.so"
	}
	return "https://api.hiro.so"
}

// Accepts reports whether a principal belongs to this network.
func (n Network) Accepts(principal Principal) bool {
	return principal.Address().Version.IsMainnet() == (n == NetworkMainnet)
}

func (n Network) String() string {
	return string(n)
}
