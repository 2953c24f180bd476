package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeNoAccount, "No account found with a@moodup.team email")
	require.Error(t, err)
	assert.Equal(t, "No account found with a@moodup.team email", err.Error())
	assert.True(t, HasCode(err, CodeNoAccount))
	assert.False(t, HasCode(err, CodeUnauthorized))
}

func TestWrap_PreservesInnerCode(t *testing.T) {
	inner := New(CodeEmailNotVerified, "email `x@moodup.team` is not verified")
	wrapped := Wrap(inner, CodeInternal, "login failed")

	assert.True(t, HasCode(wrapped, CodeEmailNotVerified))
	assert.True(t, errors.Is(wrapped, inner))
}

func TestWrap_ForeignError(t *testing.T) {
	inner := fmt.Errorf("connection refused")
	wrapped := Wrap(inner, CodeUpstream, "token endpoint unreachable")

	assert.True(t, HasCode(wrapped, CodeUpstream))
	assert.ErrorContains(t, wrapped, "token endpoint unreachable")
	assert.True(t, errors.Is(wrapped, inner))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeInvalidDomain, CodeOf(New(CodeInvalidDomain, "")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestErrorMessageFallsBackToCode(t *testing.T) {
	err := &Error{Code: CodeUnauthorized}
	assert.Equal(t, "unauthorized", err.Error())
}
