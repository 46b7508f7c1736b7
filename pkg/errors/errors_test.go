package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CapturesCodeAndStack(t *testing.T) {
	err := New(ErrCodeInvalidSMILES, "bad ring closure")
	assert.Equal(t, ErrCodeInvalidSMILES, err.Code)
	assert.Equal(t, "bad ring closure", err.Message)
	assert.NotEmpty(t, err.Stack)
	assert.Equal(t, "[MOL_001] bad ring closure", err.Error())
}

func TestError_DetailSegment(t *testing.T) {
	err := DuplicateDescriptor("MW")
	assert.Equal(t, "[DESC_001] duplicate descriptor name: name=MW", err.Error())
}

func TestWrap_NilPassthrough(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeDatabaseError, "query failed"))
}

func TestWrap_PreservesCodeForUnknown(t *testing.T) {
	inner := MissingValue("")
	wrapped := Wrap(inner, ErrCodeUnknown, "while evaluating")
	assert.Equal(t, ErrCodeMissingValue, wrapped.Code)
	assert.True(t, stderrors.Is(wrapped, wrapped))
	assert.Same(t, inner, stderrors.Unwrap(wrapped))
}

func TestIsCode_TraversesChain(t *testing.T) {
	inner := MultipleFragments(2)
	mid := fmt.Errorf("dependency failed: %w", inner)
	outer := Wrap(mid, ErrCodeInternal, "evaluation aborted")

	assert.True(t, IsCode(outer, ErrCodeMultipleFragments))
	assert.True(t, IsCode(outer, ErrCodeInternal))
	assert.False(t, IsCode(outer, ErrCodeMissingValue))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, ErrCodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, ErrCodeConformerNotFound, GetCode(ConformerNotFound(3)))
}

func TestWithDetail_CopiesReceiver(t *testing.T) {
	base := InvalidParam("empty SMILES")
	detailed := base.WithDetail("index=4")
	assert.Empty(t, base.Detail)
	assert.Equal(t, "index=4", detailed.Detail)

	var nilErr *AppError
	assert.Nil(t, nilErr.WithDetail("x"))
}

func TestMissingValue_DefaultMessage(t *testing.T) {
	err := MissingValue("")
	require.Equal(t, ErrCodeMissingValue, err.Code)
	assert.Equal(t, DefaultMessageForCode(ErrCodeMissingValue), err.Message)
}

func TestRecoverableConditions_CompareByValue(t *testing.T) {
	// Evaluation-condition errors end up inside per-structure results, and the
	// same input must yield deeply equal results whether computed by the
	// serial driver, the parallel driver, or a direct call.  A call-stack
	// snapshot would make two otherwise-identical errors differ by the frames
	// that created them, so these factories must not capture one.
	pairs := [][2]*AppError{
		{InvalidSMILES("unclosed ring"), InvalidSMILES("unclosed ring")},
		{KekulizationFailed(""), KekulizationFailed("")},
		{ConformerNotFound(0), ConformerNotFound(0)},
		{MissingValue("undefined"), MissingValue("undefined")},
		{MultipleFragments(2), MultipleFragments(2)},
		{ResultTypeMismatch("MW", "float64", "string"), ResultTypeMismatch("MW", "float64", "string")},
		{DescriptorPanic("bad", "boom"), DescriptorPanic("bad", "boom")},
	}
	for _, p := range pairs {
		assert.Empty(t, p[0].Stack, "[%s]", p[0].Code)
		assert.Equal(t, p[0], p[1], "[%s]", p[0].Code)
	}
}
