package clarity

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"
)

const (
	maxNestingDepth = 64
	maxNameLength   = 128
)

var (
	ErrMalformed   = errors.New("malformed clarity value")
	ErrUnsupported = errors.New("unsupported clarity value")

	twoTo127  = new(big.Int).Lsh(big.NewInt(1), 127)
	twoTo128  = new(big.Int).Lsh(big.NewInt(1), 128)
	minInt128 = new(big.Int).Neg(twoTo127)
	maxInt128 = new(big.Int).Sub(twoTo127, big.NewInt(1))
)

func Serialize(value Value) ([]byte, error) {
	buffer := &bytes.Buffer{}
	if err := writeValue(buffer, value); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func SerializeHex(value Value) (string, error) {
	raw, err := Serialize(value)
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(raw), nil
}

func writeValue(buffer *bytes.Buffer, value Value) error {
	if value == nil {
		return fmt.Errorf("%w: nil value", ErrUnsupported)
	}

	buffer.WriteByte(byte(value.TypeID()))
	switch typed := value.(type) {
	case Int:
		return writeInt128(buffer, typed.Value, true)
	case UInt:
		return writeInt128(buffer, typed.Value, false)
	case Buffer:
		writeLength(buffer, len(typed))
		buffer.Write(typed)
	case Bool, None:
	case StandardPrincipal:
		buffer.WriteByte(typed.Version)
		buffer.Write(typed.Hash160[:])
	case ContractPrincipal:
		buffer.WriteByte(typed.Version)
		buffer.Write(typed.Hash160[:])
		return writeName(buffer, typed.ContractName)
	case ResponseOk:
		return writeValue(buffer, typed.Value)
	case ResponseErr:
		return writeValue(buffer, typed.Value)
	case Some:
		return writeValue(buffer, typed.Value)
	case List:
		writeLength(buffer, len(typed))
		for _, item := range typed {
			if err := writeValue(buffer, item); err != nil {
				return err
			}
		}
	case Tuple:
		writeLength(buffer, len(typed))
		for _, key := range typed.SortedKeys() {
			if err := writeName(buffer, key); err != nil {
				return err
			}
			if err := writeValue(buffer, typed[key]); err != nil {
				return err
			}
		}
	case StringASCII:
		for i := 0; i < len(typed); i++ {
			if typed[i] > 0x7f {
				return fmt.Errorf("%w: string-ascii contains non-ascii byte", ErrUnsupported)
			}
		}
		writeLength(buffer, len(typed))
		buffer.WriteString(string(typed))
	case StringUTF8:
		if !utf8.ValidString(string(typed)) {
			return fmt.Errorf("%w: string-utf8 is not valid utf-8", ErrUnsupported)
		}
		writeLength(buffer, len(typed))
		buffer.WriteString(string(typed))
	default:
		return fmt.Errorf("%w: %T", ErrUnsupported, value)
	}
	return nil
}

func writeLength(buffer *bytes.Buffer, length int) {
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(length))
	buffer.Write(prefix[:])
}

func writeName(buffer *bytes.Buffer, name string) error {
	if len(name) == 0 || len(name) > maxNameLength {
		return fmt.Errorf("%w: name length %d", ErrUnsupported, len(name))
	}
	buffer.WriteByte(byte(len(name)))
	buffer.WriteString(name)
	return nil
}

func writeInt128(buffer *bytes.Buffer, value *big.Int, signed bool) error {
	if value == nil {
		value = new(big.Int)
	}

	encoded := new(big.Int).Set(value)
	if signed {
		if value.Cmp(minInt128) < 0 || value.Cmp(maxInt128) > 0 {
			return fmt.Errorf("%w: int out of 128-bit range", ErrUnsupported)
		}
		if encoded.Sign() < 0 {
			encoded.Add(encoded, twoTo128)
		}
	} else if value.Sign() < 0 || value.Cmp(twoTo128) >= 0 {
		return fmt.Errorf("%w: uint out of 128-bit range", ErrUnsupported)
	}

	var out [16]byte
	encoded.FillBytes(out[:])
	buffer.Write(out[:])
	return nil
}

func Deserialize(raw []byte) (Value, error) {
	reader := &decoder{data: raw}
	value, err := reader.readValue(0)
	if err != nil {
		return nil, err
	}
	if reader.offset != len(raw) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(raw)-reader.offset)
	}
	return value, nil
}

func DeserializeHex(raw string) (Value, error) {
	decoded, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(raw), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Deserialize(decoded)
}

type decoder struct {
	data   []byte
	offset int
}

func (d *decoder) take(n int) ([]byte, error) {
	if n < 0 || d.offset+n > len(d.data) {
		return nil, fmt.Errorf("%w: unexpected end of input", ErrMalformed)
	}
	out := d.data[d.offset : d.offset+n]
	d.offset += n
	return out, nil
}

func (d *decoder) readLength() (int, error) {
	raw, err := d.take(4)
	if err != nil {
		return 0, err
	}
	length := binary.BigEndian.Uint32(raw)
	if int64(length) > int64(len(d.data)-d.offset) {
		// Every element occupies at least one byte, so a larger length cannot be satisfied.
		return 0, fmt.Errorf("%w: length %d exceeds input", ErrMalformed, length)
	}
	return int(length), nil
}

func (d *decoder) readName() (string, error) {
	raw, err := d.take(1)
	if err != nil {
		return "", err
	}
	name, err := d.take(int(raw[0]))
	if err != nil {
		return "", err
	}
	return string(name), nil
}

func (d *decoder) readValue(depth int) (Value, error) {
	if depth > maxNestingDepth {
		return nil, fmt.Errorf("%w: nesting too deep", ErrMalformed)
	}

	prefix, err := d.take(1)
	if err != nil {
		return nil, err
	}

	switch TypeID(prefix[0]) {
	case TypeInt, TypeUInt:
		raw, err := d.take(16)
		if err != nil {
			return nil, err
		}
		value := new(big.Int).SetBytes(raw)
		if TypeID(prefix[0]) == TypeUInt {
			return UInt{Value: value}, nil
		}
		if raw[0]&0x80 != 0 {
			value.Sub(value, twoTo128)
		}
		return Int{Value: value}, nil
	case TypeBuffer:
		length, err := d.readLength()
		if err != nil {
			return nil, err
		}
		raw, err := d.take(length)
		if err != nil {
			return nil, err
		}
		return Buffer(append([]byte(nil), raw...)), nil
	case TypeBoolTrue:
		return Bool(true), nil
	case TypeBoolFalse:
		return Bool(false), nil
	case TypeStandardPrincipal, TypeContractPrincipal:
		raw, err := d.take(21)
		if err != nil {
			return nil, err
		}
		standard := StandardPrincipal{Version: raw[0]}
		copy(standard.Hash160[:], raw[1:])
		if TypeID(prefix[0]) == TypeStandardPrincipal {
			return standard, nil
		}
		name, err := d.readName()
		if err != nil {
			return nil, err
		}
		return ContractPrincipal{Version: standard.Version, Hash160: standard.Hash160, ContractName: name}, nil
	case TypeResponseOk, TypeResponseErr, TypeOptionalSome:
		inner, err := d.readValue(depth + 1)
		if err != nil {
			return nil, err
		}
		switch TypeID(prefix[0]) {
		case TypeResponseOk:
			return ResponseOk{Value: inner}, nil
		case TypeResponseErr:
			return ResponseErr{Value: inner}, nil
		default:
			return Some{Value: inner}, nil
		}
	case TypeOptionalNone:
		return None{}, nil
	case TypeList:
		length, err := d.readLength()
		if err != nil {
			return nil, err
		}
		items := make(List, 0, length)
		for i := 0; i < length; i++ {
			item, err := d.readValue(depth + 1)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case TypeTuple:
		length, err := d.readLength()
		if err != nil {
			return nil, err
		}
		tuple := make(Tuple, length)
		for i := 0; i < length; i++ {
			name, err := d.readName()
			if err != nil {
				return nil, err
			}
			item, err := d.readValue(depth + 1)
			if err != nil {
				return nil, err
			}
			tuple[name] = item
		}
		return tuple, nil
	case TypeStringASCII, TypeStringUTF8:
		length, err := d.readLength()
		if err != nil {
			return nil, err
		}
		raw, err := d.take(length)
		if err != nil {
			return nil, err
		}
		if TypeID(prefix[0]) == TypeStringASCII {
			return StringASCII(raw), nil
		}
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("%w: invalid utf-8 string", ErrMalformed)
		}
		return StringUTF8(raw), nil
	default:
		return nil, fmt.Errorf("%w: unknown type prefix 0x%02x", ErrMalformed, prefix[0])
	}
}

// ExpectUInt unwraps a uint result, optionally wrapped in an ok response.
func ExpectUInt(value Value) (*big.Int, error) {
	switch typed := value.(type) {
	case UInt:
		if typed.Value == nil {
			return new(big.Int), nil
		}
		return new(big.Int).Set(typed.Value), nil
	case ResponseOk:
		return ExpectUInt(typed.Value)
	case nil:
		return nil, fmt.Errorf("%w: expected uint, got nothing", ErrUnsupported)
	default:
		return nil, fmt.Errorf("%w: expected uint, got type 0x%02x", ErrUnsupported, byte(value.TypeID()))
	}
}
