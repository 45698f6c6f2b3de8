package clarity

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
)

// JSONValue is the display form of a value, e.g. {"type":"uint","value":"1000000"}.
type JSONValue struct {
	Type  string `json:"type"`
	Value any    `json:"value,omitempty"`
}

func ToJSON(value Value) JSONValue {
	switch typed := value.(type) {
	case Int:
		return JSONValue{Type: "int", Value: bigString(typed.Value)}
	case UInt:
		return JSONValue{Type: "uint", Value: bigString(typed.Value)}
	case Buffer:
		return JSONValue{Type: "buffer", Value: "0x" + hex.EncodeToString(typed)}
	case Bool:
		return JSONValue{Type: "bool", Value: bool(typed)}
	case StandardPrincipal:
		return JSONValue{Type: "principal", Value: typed.String()}
	case ContractPrincipal:
		return JSONValue{Type: "principal", Value: typed.String()}
	case ResponseOk:
		return JSONValue{Type: "ok", Value: ToJSON(typed.Value)}
	case ResponseErr:
		return JSONValue{Type: "err", Value: ToJSON(typed.Value)}
	case None:
		return JSONValue{Type: "none"}
	case Some:
		return JSONValue{Type: "some", Value: ToJSON(typed.Value)}
	case List:
		items := make([]JSONValue, 0, len(typed))
		for _, item := range typed {
			items = append(items, ToJSON(item))
		}
		return JSONValue{Type: "list", Value: items}
	case Tuple:
		fields := make(map[string]JSONValue, len(typed))
		for key, item := range typed {
			fields[key] = ToJSON(item)
		}
		return JSONValue{Type: "tuple", Value: fields}
	case StringASCII:
		return JSONValue{Type: "string-ascii", Value: string(typed)}
	case StringUTF8:
		return JSONValue{Type: "string-utf8", Value: string(typed)}
	default:
		return JSONValue{Type: fmt.Sprintf("unknown:%T", value)}
	}
}

// Args renders an ordered argument list for JSON responses.
type Args []Value

func (a Args) MarshalJSON() ([]byte, error) {
	out := make([]JSONValue, 0, len(a))
	for _, value := range a {
		out = append(out, ToJSON(value))
	}
	return json.Marshal(out)
}

// Hex serializes every argument, as read-only calls and wallets expect.
func (a Args) Hex() ([]string, error) {
	out := make([]string, 0, len(a))
	for i, value := range a {
		encoded, err := SerializeHex(value)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out = append(out, encoded)
	}
	return out, nil
}

func bigString(value *big.Int) string {
	if value == nil {
		return "0"
	}
	return value.String()
}
