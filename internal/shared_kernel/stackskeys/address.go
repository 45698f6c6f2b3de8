package stackskeys

import (
	stderrors "errors"
	"strings"
)

type AddressVersion byte

const (
	VersionMainnetSingleSig AddressVersion = 22
	VersionMainnetMultiSig  AddressVersion = 20
	VersionTestnetSingleSig AddressVersion = 26
	VersionTestnetMultiSig  AddressVersion = 21
)

type Address struct {
	Version AddressVersion
	Hash160 [Hash160Size]byte
}

func (v AddressVersion) supported() bool {
	switch v {
	case VersionMainnetSingleSig, VersionMainnetMultiSig, VersionTestnetSingleSig, VersionTestnetMultiSig:
		return true
	default:
		return false
	}
}

func (v AddressVersion) IsMainnet() bool {
	return v == VersionMainnetSingleSig || v == VersionMainnetMultiSig
}

// ParseAddress decodes a standard principal and verifies its c32check checksum.
func ParseAddress(raw string) (Address, *KeyError) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < 3 || (trimmed[0] != 'S' && trimmed[0] != 's') {
		return Address{}, wrapKeyError(CodeInvalidAddressFormat, "stacks address must start with S", nil)
	}

	version, data, err := c32CheckDecode(trimmed[1:])
	if err != nil {
		if stderrors.Is(err, errChecksumMismatch) {
			return Address{}, wrapKeyError(CodeChecksumMismatch, "stacks address checksum mismatch", err)
		}
		return Address{}, wrapKeyError(CodeInvalidAddressFormat, "invalid stacks address encoding", err)
	}
	if len(data) != Hash160Size {
		return Address{}, wrapKeyError(CodeInvalidAddressFormat, "stacks address payload must be 20 bytes", nil)
	}

	addressVersion := AddressVersion(version)
	if !addressVersion.supported() {
		return Address{}, wrapKeyError(CodeUnsupportedVersion, "unsupported stacks address version", nil)
	}

	out := Address{Version: addressVersion}
	copy(out.Hash160[:], data)
	return out, nil
}

func (a Address) String() string {
	encoded, err := c32CheckEncode(byte(a.Version), a.Hash160[:])
	if err != nil {
		return ""
	}
	return "S" + encoded
}

func AddressFromPublicKey(publicKey []byte, version AddressVersion) (Address, *KeyError) {
	if len(publicKey) != 33 && len(publicKey) != 65 {
		return Address{}, wrapKeyError(CodeInvalidKeyMaterial, "public key must be 33 or 65 bytes", nil)
	}
	if !version.supported() {
		return Address{}, wrapKeyError(CodeUnsupportedVersion, "unsupported stacks address version", nil)
	}

	return Address{
		Version: version,
		Hash160: Hash160(publicKey),
	}, nil
}
