package stackskeys

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // Stacks addresses are defined over RIPEMD160.
)

const Hash160Size = 20

func Hash160(input []byte) [Hash160Size]byte {
	shaSum := sha256.Sum256(input)
	hasher := ripemd160.New()
	_, _ = hasher.Write(shaSum[:])

	var out [Hash160Size]byte
	copy(out[:], hasher.Sum(nil))
	return out
}
