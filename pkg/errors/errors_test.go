package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Format(t *testing.T) {
	err := New(CodeValueOutOfRange, "value outside all bands")
	assert.Equal(t, "[SOIL_002] value outside all bands", err.Error())

	withDetail := err.WithDetail("Nitrogen=12000")
	assert.Equal(t, "[SOIL_002] value outside all bands: Nitrogen=12000", withDetail.Error())
	// Original is not mutated.
	assert.Empty(t, err.Detail)
}

func TestWrap_NilPassthrough(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestWrap_PreservesCodeOnUnknown(t *testing.T) {
	inner := New(CodeSeasonMismatch, "crops off-season")
	wrapped := Wrap(inner, CodeUnknown, "recommendation stage failed")
	assert.Equal(t, CodeSeasonMismatch, wrapped.Code)
	assert.True(t, IsCode(wrapped, CodeSeasonMismatch))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(fmt.Errorf("plain")))
	assert.Equal(t, CodeNumericLeak, GetCode(New(CodeNumericLeak, "leak")))

	wrapped := fmt.Errorf("outer: %w", New(CodeLLMMalformedJSON, "bad json"))
	assert.Equal(t, CodeLLMMalformedJSON, GetCode(wrapped))
}

func TestIsInvariantViolation(t *testing.T) {
	assert.True(t, IsInvariantViolation(New(CodeCategorizationInvariant, "measured category drifted")))
	assert.True(t, IsInvariantViolation(New(CodeFertilityFilterBreach, "onion survived")))
	assert.False(t, IsInvariantViolation(New(CodeSeasonMismatch, "retryable")))
	assert.False(t, IsInvariantViolation(nil))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 400, HTTPStatus(CodeInvalidParam))
	assert.Equal(t, 503, HTTPStatus(CodeLLMUnavailable))
	assert.Equal(t, 504, HTTPStatus(CodeLLMTimeout))
	assert.Equal(t, 500, HTTPStatus(CodeCategorizationInvariant))
}
