package stackskeys

type ErrorCode string

const (
	CodeInvalidAddressFormat  ErrorCode = "invalid_address_format"
	CodeChecksumMismatch      ErrorCode = "address_checksum_mismatch"
	CodeUnsupportedVersion    ErrorCode = "unsupported_address_version"
	CodeInvalidSignature      ErrorCode = "invalid_signature"
	CodeInvalidKeyMaterial    ErrorCode = "invalid_key_material"
	CodeSignatureRecoveryFail ErrorCode = "signature_recovery_failed"
)

type KeyError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *KeyError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *KeyError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func wrapKeyError(code ErrorCode, message string, cause error) *KeyError {
	return &KeyError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
