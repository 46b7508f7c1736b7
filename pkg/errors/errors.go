// Package errors provides the unified error type and factory functions for the
// MolDesc-Engine platform.  Every layer of the application (domain, application,
// infrastructure, interfaces) uses AppError as the single carrier for structured
// error information, enabling consistent failure tagging, logging, and the
// Missing/Error distinction made by the descriptor evaluator.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames above
// the caller (skipping captureStack itself and New/Wrap).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		// Trim standard-library noise to keep traces readable.
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError — the canonical platform error type
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the single structured error type used throughout MolDesc-Engine.
// It satisfies the standard error interface and supports Go 1.13+ error wrapping
// so that errors.Is / errors.As / errors.Unwrap work transparently across all
// layers of the application.
//
// Usage:
//
//	return errors.New(errors.ErrCodeInvalidSMILES, "unclosed ring bond in SMILES")
//	return errors.Wrap(dbErr, errors.ErrCodeDatabaseError, "failed to store results")
//	return errors.MissingValue("ring count undefined for acyclic structure")
type AppError struct {
	// Code is the typed error code that uniquely identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description of the error.
	Message string

	// Detail carries supplementary context (descriptor names, SMILES strings,
	// conformer ids) that aids debugging without bloating the message.
	Detail string

	// Cause is the underlying error that triggered this AppError, enabling
	// errors.Is / errors.As traversal of the full error chain.
	Cause error

	// Stack contains the formatted call-stack captured at the point of error
	// creation.  It is intentionally not included in Error() output; callers
	// that need it can inspect the field directly.
	Stack string
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>", the detail segment omitted when empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error, enabling errors.Is and errors.As
// to traverse the full error chain without additional boilerplate at call sites.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set to the
// supplied string.  It is safe to call on a nil pointer (returns nil).
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// ─────────────────────────────────────────────────────────────────────────────
// Primary factory functions
// ─────────────────────────────────────────────────────────────────────────────

// New constructs a fresh AppError with the given code and message.
// A call-stack snapshot is captured automatically.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps an existing error.
// If err is nil, Wrap returns nil so it can be used inline.
//
// When err is already an *AppError and code is ErrCodeUnknown, the original
// code is preserved, preventing loss of the original classification during
// cross-layer propagation.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == ErrCodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Error-chain inspection helpers
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.  It is the idiomatic way to check domain-specific failure modes:
//
//	if errors.IsCode(err, errors.ErrCodeMissingValue) { ... }
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError found in err's chain.
// If no *AppError is present, ErrCodeUnknown is returned.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ErrCodeUnknown
}

// ─────────────────────────────────────────────────────────────────────────────
// Convenience factory functions for program faults
// ─────────────────────────────────────────────────────────────────────────────

// NotFound constructs an ErrCodeNotFound AppError.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message, Stack: captureStack(1)}
}

// InvalidParam constructs an ErrCodeInvalidParam AppError.
func InvalidParam(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidParam, Message: message, Stack: captureStack(1)}
}

// Internal constructs an ErrCodeInternal AppError.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, Stack: captureStack(1)}
}

// DuplicateDescriptor constructs an ErrCodeDuplicateDescriptor AppError.
// Registering two descriptors with the same canonical name is always a
// configuration error and is never converted into a per-structure result.
func DuplicateDescriptor(name string) *AppError {
	return &AppError{
		Code:    ErrCodeDuplicateDescriptor,
		Message: DefaultMessageForCode(ErrCodeDuplicateDescriptor),
		Detail:  fmt.Sprintf("name=%s", name),
		Stack:   captureStack(1),
	}
}

// InvalidRegistration constructs an ErrCodeInvalidRegistration AppError.
func InvalidRegistration(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidRegistration, Message: message, Stack: captureStack(1)}
}

// ─────────────────────────────────────────────────────────────────────────────
// Recoverable evaluation conditions
// ─────────────────────────────────────────────────────────────────────────────
//
// The factories below describe conditions of the input structure or of one
// descriptor's outcome.  They end up embedded in per-structure results, and
// identical inputs must yield identical results no matter which code path
// (serial or parallel driver, direct call) produced them — so these errors
// carry no call-stack snapshot.  The descriptor-name stack recorded on the
// Result is the diagnostic trail for these conditions.

// InvalidSMILES constructs an ErrCodeInvalidSMILES AppError.
func InvalidSMILES(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidSMILES, Message: message}
}

// KekulizationFailed constructs an ErrCodeKekulizationFailed AppError.
func KekulizationFailed(message string) *AppError {
	if message == "" {
		message = DefaultMessageForCode(ErrCodeKekulizationFailed)
	}
	return &AppError{Code: ErrCodeKekulizationFailed, Message: message}
}

// ConformerNotFound constructs an ErrCodeConformerNotFound AppError for the
// requested conformer id.
func ConformerNotFound(id int) *AppError {
	return &AppError{
		Code:    ErrCodeConformerNotFound,
		Message: DefaultMessageForCode(ErrCodeConformerNotFound),
		Detail:  fmt.Sprintf("conformer_id=%d", id),
	}
}

// MissingValue constructs an ErrCodeMissingValue AppError.  A descriptor
// returns this from Calculate when its value is legitimately undefined for the
// input structure; the evaluator converts it into a Missing result rather than
// a generic Error result.
func MissingValue(message string) *AppError {
	if message == "" {
		message = DefaultMessageForCode(ErrCodeMissingValue)
	}
	return &AppError{Code: ErrCodeMissingValue, Message: message}
}

// MultipleFragments constructs an ErrCodeMultipleFragments AppError carrying
// the observed fragment count.
func MultipleFragments(n int) *AppError {
	return &AppError{
		Code:    ErrCodeMultipleFragments,
		Message: DefaultMessageForCode(ErrCodeMultipleFragments),
		Detail:  fmt.Sprintf("fragments=%d", n),
	}
}

// ResultTypeMismatch constructs an ErrCodeResultTypeMismatch AppError.
func ResultTypeMismatch(descriptor, want, got string) *AppError {
	return &AppError{
		Code:    ErrCodeResultTypeMismatch,
		Message: DefaultMessageForCode(ErrCodeResultTypeMismatch),
		Detail:  fmt.Sprintf("descriptor=%s want=%s got=%s", descriptor, want, got),
	}
}

// DescriptorPanic constructs an ErrCodeDescriptorPanic AppError for a panic
// recovered during one descriptor's Calculate.
func DescriptorPanic(descriptor string, v interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeDescriptorPanic,
		Message: DefaultMessageForCode(ErrCodeDescriptorPanic),
		Detail:  fmt.Sprintf("descriptor=%s panic=%v", descriptor, v),
	}
}
