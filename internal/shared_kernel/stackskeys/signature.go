package stackskeys

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

const (
	signatureLength  = 65
	privateKeyLength = 32
)

// RecoverPublicKey returns the compressed secp256k1 key that produced an RSV signature
// over digest.
func RecoverPublicKey(digest [32]byte, signatureHex string) ([]byte, *KeyError) {
	signature, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(signatureHex), "0x"))
	if err != nil {
		return nil, wrapKeyError(CodeInvalidSignature, "signature must be hex encoded", err)
	}
	if len(signature) != signatureLength {
		return nil, wrapKeyError(CodeInvalidSignature, "signature must be 65 bytes", nil)
	}

	normalized := make([]byte, signatureLength)
	copy(normalized, signature)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	if normalized[64] > 1 {
		return nil, wrapKeyError(CodeInvalidSignature, "signature recovery id is invalid", nil)
	}

	publicKey, err := crypto.SigToPub(digest[:], normalized)
	if err != nil {
		return nil, wrapKeyError(CodeSignatureRecoveryFail, "failed to recover public key from signature", err)
	}

	return crypto.CompressPubkey(publicKey), nil
}

// RecoverSigner recovers the address of the key that signed digest.
func RecoverSigner(digest [32]byte, signatureHex string, version AddressVersion) (Address, *KeyError) {
	publicKey, keyErr := RecoverPublicKey(digest, signatureHex)
	if keyErr != nil {
		return Address{}, keyErr
	}
	return AddressFromPublicKey(publicKey, version)
}

// ParsePrivateKey accepts a 32-byte hex key, optionally carrying the trailing 0x01
// compression flag used by Stacks wallets.
func ParsePrivateKey(raw string) (*ecdsa.PrivateKey, *KeyError) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if len(trimmed) == 2*privateKeyLength+2 && strings.HasSuffix(trimmed, "01") {
		trimmed = trimmed[:2*privateKeyLength]
	}

	key, err := crypto.HexToECDSA(trimmed)
	if err != nil {
		return nil, wrapKeyError(CodeInvalidKeyMaterial, "private key must be 32 bytes of hex", err)
	}
	return key, nil
}

// Sign produces an RSV signature over digest.
func Sign(digest [32]byte, key *ecdsa.PrivateKey) (string, *KeyError) {
	if key == nil {
		return "", wrapKeyError(CodeInvalidKeyMaterial, "private key is required", nil)
	}

	signature, err := crypto.Sign(digest[:], key)
	if err != nil {
		return "", wrapKeyError(CodeInvalidKeyMaterial, "failed to sign digest", err)
	}
	return hex.EncodeToString(signature), nil
}

func AddressFromPrivateKey(key *ecdsa.PrivateKey, version AddressVersion) (Address, *KeyError) {
	if key == nil {
		return Address{}, wrapKeyError(CodeInvalidKeyMaterial, "private key is required", nil)
	}
	return AddressFromPublicKey(crypto.CompressPubkey(&key.PublicKey), version)
}
