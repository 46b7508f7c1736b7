package errors

import "strings"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal       ErrorCode = "COMMON_001"
	ErrCodeInvalidParam   ErrorCode = "COMMON_002"
	ErrCodeNotFound       ErrorCode = "COMMON_003"
	ErrCodeConflict       ErrorCode = "COMMON_004"
	ErrCodeValidation     ErrorCode = "COMMON_005"
	ErrCodeDatabaseError  ErrorCode = "COMMON_006"
	ErrCodeNotImplemented ErrorCode = "COMMON_007"
	ErrCodeUnknown        ErrorCode = "COMMON_000"
	CodeOK                ErrorCode = "OK"
)

// Molecule Error Codes
const (
	ErrCodeInvalidSMILES       ErrorCode = "MOL_001"
	ErrCodeKekulizationFailed  ErrorCode = "MOL_002"
	ErrCodeConformerNotFound   ErrorCode = "MOL_003"
	ErrCodeAtomIndexOutOfRange ErrorCode = "MOL_004"
)

// Descriptor Engine Error Codes
const (
	ErrCodeDuplicateDescriptor ErrorCode = "DESC_001"
	ErrCodeInvalidRegistration ErrorCode = "DESC_002"
	ErrCodeMissingValue        ErrorCode = "DESC_003"
	ErrCodeMultipleFragments   ErrorCode = "DESC_004"
	ErrCodeResultTypeMismatch  ErrorCode = "DESC_005"
	ErrCodeDescriptorPanic     ErrorCode = "DESC_006"
)

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:       "internal error",
	ErrCodeInvalidParam:   "invalid parameter",
	ErrCodeNotFound:       "resource not found",
	ErrCodeConflict:       "resource conflict",
	ErrCodeValidation:     "validation failed",
	ErrCodeDatabaseError:  "database error",
	ErrCodeNotImplemented: "not implemented",

	ErrCodeInvalidSMILES:       "invalid SMILES format",
	ErrCodeKekulizationFailed:  "kekulization failed",
	ErrCodeConformerNotFound:   "conformer not found",
	ErrCodeAtomIndexOutOfRange: "atom index out of range",

	ErrCodeDuplicateDescriptor: "duplicate descriptor name",
	ErrCodeInvalidRegistration: "invalid descriptor registration input",
	ErrCodeMissingValue:        "descriptor value is undefined for this structure",
	ErrCodeMultipleFragments:   "structure has multiple fragments",
	ErrCodeResultTypeMismatch:  "descriptor result type mismatch",
	ErrCodeDescriptorPanic:     "descriptor computation panicked",
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of an ErrorCode ("COMMON", "MOL", "DESC").
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
