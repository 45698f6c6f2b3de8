package sip018

import (
	"crypto/ecdsa"
	"crypto/sha256"

	"blaze/internal/domain/clarity"
	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
	"blaze/internal/shared_kernel/stackskeys"
)

const (
	DomainName    = "blaze"
	DomainVersion = "0.1.0"
)

var structuredDataPrefix = []byte("SIP018")

// TransferMessage is the off-chain transfer a holder signs for the subnet contract.
type TransferMessage struct {
	Token  valueobjects.Principal
	To     valueobjects.Principal
	Amount valueobjects.BaseUnits
	Nonce  uint64
}

func (m TransferMessage) Tuple() clarity.Tuple {
	return clarity.Tuple{
		"token":  clarity.PrincipalValue(m.Token),
		"to":     clarity.PrincipalValue(m.To),
		"amount": clarity.UIntFromBaseUnits(m.Amount),
		"nonce":  clarity.NewUInt(m.Nonce),
	}
}

func Domain(network valueobjects.Network) clarity.Tuple {
	return clarity.Tuple{
		"name":     clarity.StringASCII(DomainName),
		"version":  clarity.StringASCII(DomainVersion),
		"chain-id": clarity.NewUInt(uint64(network.ChainID())),
	}
}

// Hash computes sha256("SIP018" || sha256(domain) || sha256(message)).
func Hash(domain, message clarity.Value) ([32]byte, error) {
	domainBytes, err := clarity.Serialize(domain)
	if err != nil {
		return [32]byte{}, err
	}
	messageBytes, err := clarity.Serialize(message)
	if err != nil {
		return [32]byte{}, err
	}

	domainHash := sha256.Sum256(domainBytes)
	messageHash := sha256.Sum256(messageBytes)

	payload := make([]byte, 0, len(structuredDataPrefix)+64)
	payload = append(payload, structuredDataPrefix...)
	payload = append(payload, domainHash[:]...)
	payload = append(payload, messageHash[:]...)
	return sha256.Sum256(payload), nil
}

func TransferHash(network valueobjects.Network, message TransferMessage) ([32]byte, *apperrors.AppError) {
	digest, err := Hash(Domain(network), message.Tuple())
	if err != nil {
		return [32]byte{}, apperrors.NewValidation(
			"invalid_transfer_message",
			"transfer message cannot be serialized",
			map[string]any{"error": err.Error()},
		)
	}
	return digest, nil
}

// VerifyTransfer checks that signature over message was produced by from.
func VerifyTransfer(network valueobjects.Network, message TransferMessage, signature string, from valueobjects.Principal) *apperrors.AppError {
	digest, appErr := TransferHash(network, message)
	if appErr != nil {
		return appErr
	}

	signer, keyErr := stackskeys.RecoverSigner(digest, signature, from.Address().Version)
	if keyErr != nil {
		return apperrors.NewUnauthorized(
			"invalid_signature",
			"signature could not be verified",
			map[string]any{"reason": string(keyErr.Code)},
		)
	}
	if signer != from.Address() {
		return apperrors.NewUnauthorized(
			"invalid_signature",
			"signature does not match the sender",
			map[string]any{"from": from.String(), "signer": signer.String()},
		)
	}
	return nil
}

func SignTransfer(network valueobjects.Network, message TransferMessage, key *ecdsa.PrivateKey) (string, *apperrors.AppError) {
	digest, appErr := TransferHash(network, message)
	if appErr != nil {
		return "", appErr
	}
	signature, keyErr := stackskeys.Sign(digest, key)
	if keyErr != nil {
		return "", apperrors.NewValidation(
			"invalid_key",
			keyErr.Message,
			map[string]any{"reason": string(keyErr.Code)},
		)
	}
	return signature, nil
}
