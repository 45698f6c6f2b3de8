package postconditions

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	valueobjects "blaze/internal/domain/value_objects"
)

const (
	wireTypeSTX      byte = 0x00
	wireTypeFungible byte = 0x01

	wirePrincipalStandard byte = 0x02
	wirePrincipalContract byte = 0x03
)

var wireComparators = map[Comparator]byte{
	ComparatorEq:  0x01,
	ComparatorGte: 0x03,
	ComparatorLte: 0x05,
}

// EncodeHex renders the post-condition in the transaction wire format wallets accept.
func (p PostCondition) EncodeHex() (string, error) {
	buffer := &bytes.Buffer{}

	switch p.Asset.Type {
	case AssetTypeSTX:
		buffer.WriteByte(wireTypeSTX)
		writeWirePrincipal(buffer, p.Principal)
	case AssetTypeFT:
		buffer.WriteByte(wireTypeFungible)
		writeWirePrincipal(buffer, p.Principal)
		contract := p.Asset.Identifier.Contract
		writeWireAddress(buffer, contract)
		if err := writeWireName(buffer, contract.ContractName()); err != nil {
			return "", err
		}
		if err := writeWireName(buffer, p.Asset.Identifier.AssetName); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unsupported asset type %q", p.Asset.Type)
	}

	code, ok := wireComparators[p.Comparator]
	if !ok {
		return "", fmt.Errorf("unsupported comparator %q", p.Comparator)
	}
	buffer.WriteByte(code)

	quantity := p.Quantity.BigInt()
	if !quantity.IsUint64() {
		return "", fmt.Errorf("post-condition quantity %s exceeds 64 bits", quantity.String())
	}
	var amount [8]byte
	binary.BigEndian.PutUint64(amount[:], quantity.Uint64())
	buffer.Write(amount[:])

	return "0x" + hex.EncodeToString(buffer.Bytes()), nil
}

func writeWirePrincipal(buffer *bytes.Buffer, principal valueobjects.Principal) {
	if principal.IsContract() {
		buffer.WriteByte(wirePrincipalContract)
		writeWireAddress(buffer, principal)
		_ = writeWireName(buffer, principal.ContractName())
		return
	}
	buffer.WriteByte(wirePrincipalStandard)
	writeWireAddress(buffer, principal)
}

func writeWireAddress(buffer *bytes.Buffer, principal valueobjects.Principal) {
	address := principal.Address()
	buffer.WriteByte(byte(address.Version))
	buffer.Write(address.Hash160[:])
}

func writeWireName(buffer *bytes.Buffer, name string) error {
	if len(name) == 0 || len(name) > 128 {
		return fmt.Errorf("invalid name length %d", len(name))
	}
	buffer.WriteByte(byte(len(name)))
	buffer.WriteString(name)
	return nil
}

func EncodeAllHex(conditions []PostCondition) ([]string, error) {
	out := make([]string, 0, len(conditions))
	for i, condition := range conditions {
		encoded, err := condition.EncodeHex()
		if err != nil {
			return nil, fmt.Errorf("post-condition %d: %w", i, err)
		}
		out = append(out, encoded)
	}
	return out, nil
}
