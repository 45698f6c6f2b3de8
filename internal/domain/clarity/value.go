package clarity

import (
	"math/big"
	"sort"

	valueobjects "blaze/internal/domain/value_objects"
	"blaze/internal/shared_kernel/stackskeys"
)

// TypeID is the SIP-005 consensus type prefix of a serialized value.
type TypeID byte

const (
	TypeInt               TypeID = 0x00
	TypeUInt              TypeID = 0x01
	TypeBuffer            TypeID = 0x02
	TypeBoolTrue          TypeID = 0x03
	TypeBoolFalse         TypeID = 0x04
	TypeStandardPrincipal TypeID = 0x05
	TypeContractPrincipal TypeID = 0x06
	TypeResponseOk        TypeID = 0x07
	TypeResponseErr       TypeID = 0x08
	TypeOptionalNone      TypeID = 0x09
	TypeOptionalSome      TypeID = 0x0a
	TypeList              TypeID = 0x0b
	TypeTuple             TypeID = 0x0c
	TypeStringASCII       TypeID = 0x0d
	TypeStringUTF8        TypeID = 0x0e
)

type Value interface {
	TypeID() TypeID
}

type Int struct {
	Value *big.Int
}

type UInt struct {
	Value *big.Int
}

type Buffer []byte

type Bool bool

type StandardPrincipal struct {
	Version byte
	Hash160 [stackskeys.Hash160Size]byte
}

type ContractPrincipal struct {
	Version      byte
	Hash160      [stackskeys.Hash160Size]byte
	ContractName string
}

type ResponseOk struct {
	Value Value
}

type ResponseErr struct {
	Value Value
}

type None struct{}

type Some struct {
	Value Value
}

type List []Value

type Tuple map[string]Value

type StringASCII string

type StringUTF8 string

func (Int) TypeID() TypeID  { return TypeInt }
func (UInt) TypeID() TypeID { return TypeUInt }
func (Buffer) TypeID() TypeID {
	return TypeBuffer
}
func (b Bool) TypeID() TypeID {
	if b {
		return TypeBoolTrue
	}
	return TypeBoolFalse
}
func (StandardPrincipal) TypeID() TypeID { return TypeStandardPrincipal }
func (ContractPrincipal) TypeID() TypeID { return TypeContractPrincipal }
func (ResponseOk) TypeID() TypeID        { return TypeResponseOk }
func (ResponseErr) TypeID() TypeID       { return TypeResponseErr }
func (None) TypeID() TypeID              { return TypeOptionalNone }
func (Some) TypeID() TypeID              { return TypeOptionalSome }
func (List) TypeID() TypeID              { return TypeList }
func (Tuple) TypeID() TypeID             { return TypeTuple }
func (StringASCII) TypeID() TypeID       { return TypeStringASCII }
func (StringUTF8) TypeID() TypeID        { return TypeStringUTF8 }

func NewUInt(value uint64) UInt {
	return UInt{Value: new(big.Int).SetUint64(value)}
}

func NewInt(value int64) Int {
	return Int{Value: big.NewInt(value)}
}

func UIntFromBaseUnits(amount valueobjects.BaseUnits) UInt {
	return UInt{Value: amount.BigInt()}
}

func PrincipalValue(principal valueobjects.Principal) Value {
	address := principal.Address()
	if principal.IsContract() {
		return ContractPrincipal{
			Version:      byte(address.Version),
			Hash160:      address.Hash160,
			ContractName: principal.ContractName(),
		}
	}
	return StandardPrincipal{Version: byte(address.Version), Hash160: address.Hash160}
}

func OptionalValue(value Value) Value {
	if value == nil {
		return None{}
	}
	return Some{Value: value}
}

func (p StandardPrincipal) String() string {
	return stackskeys.Address{Version: stackskeys.AddressVersion(p.Version), Hash160: p.Hash160}.String()
}

func (p ContractPrincipal) String() string {
	return stackskeys.Address{Version: stackskeys.AddressVersion(p.Version), Hash160: p.Hash160}.String() + "." + p.ContractName
}

// SortedKeys returns tuple keys in serialization order.
func (t Tuple) SortedKeys() []string {
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
