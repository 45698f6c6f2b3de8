package stackskeys

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"
)

const c32Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var bigThirtyTwo = big.NewInt(32)

func normalizeC32(input string) string {
	upper := strings.ToUpper(input)
	upper = strings.ReplaceAll(upper, "O", "0")
	upper = strings.ReplaceAll(upper, "L", "1")
	return strings.ReplaceAll(upper, "I", "1")
}

func encodeC32(input []byte) string {
	value := new(big.Int).SetBytes(input)
	mod := new(big.Int)
	encoded := make([]byte, 0, len(input)*8/5+1)

	for value.Sign() > 0 {
		value.DivMod(value, bigThirtyTwo, mod)
		encoded = append(encoded, c32Alphabet[mod.Int64()])
	}

	for i := 0; i < len(input) && input[i] == 0; i++ {
		encoded = append(encoded, c32Alphabet[0])
	}

	for i, j := 0, len(encoded)-1; i < j; i, j = i+1, j-1 {
		encoded[i], encoded[j] = encoded[j], encoded[i]
	}

	return string(encoded)
}

func decodeC32(input string) ([]byte, error) {
	normalized := normalizeC32(input)
	value := big.NewInt(0)

	for i := 0; i < len(normalized); i++ {
		index := strings.IndexByte(c32Alphabet, normalized[i])
		if index < 0 {
			return nil, fmt.Errorf("invalid c32 character: %q", normalized[i])
		}
		value.Mul(value, bigThirtyTwo)
		value.Add(value, big.NewInt(int64(index)))
	}

	leadingZeroes := 0
	for leadingZeroes < len(normalized) && normalized[leadingZeroes] == c32Alphabet[0] {
		leadingZeroes++
	}

	decoded := value.Bytes()
	out := make([]byte, leadingZeroes+len(decoded))
	copy(out[leadingZeroes:], decoded)
	return out, nil
}

func c32CheckEncode(version byte, data []byte) (string, error) {
	if int(version) >= len(c32Alphabet) {
		return "", fmt.Errorf("c32check version must be below 32")
	}

	checksum := c32Checksum(version, data)
	buffer := make([]byte, 0, len(data)+4)
	buffer = append(buffer, data...)
	buffer = append(buffer, checksum[:]...)
	return string(c32Alphabet[version]) + encodeC32(buffer), nil
}

func c32CheckDecode(input string) (byte, []byte, error) {
	normalized := normalizeC32(input)
	if len(normalized) < 2 {
		return 0, nil, fmt.Errorf("c32check payload too short")
	}

	versionIndex := strings.IndexByte(c32Alphabet, normalized[0])
	if versionIndex < 0 {
		return 0, nil, fmt.Errorf("invalid c32check version character: %q", normalized[0])
	}
	version := byte(versionIndex)

	decoded, err := decodeC32(normalized[1:])
	if err != nil {
		return 0, nil, err
	}
	if len(decoded) < 4 {
		return 0, nil, fmt.Errorf("c32check payload too short")
	}

	data := decoded[:len(decoded)-4]
	checksum := decoded[len(decoded)-4:]
	expected := c32Checksum(version, data)
	if checksum[0] != expected[0] || checksum[1] != expected[1] || checksum[2] != expected[2] || checksum[3] != expected[3] {
		return 0, nil, errChecksumMismatch
	}

	return version, data, nil
}

var errChecksumMismatch = fmt.Errorf("c32check checksum mismatch")

func c32Checksum(version byte, data []byte) [4]byte {
	payload := make([]byte, 0, len(data)+1)
	payload = append(payload, version)
	payload = append(payload, data...)

	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return [4]byte{second[0], second[1], second[2], second[3]}
}
