package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "tracker-gateway/pkg/domain-errors"
)

func TestParseResourceID(t *testing.T) {
	id, err := ParseResourceID("42")
	require.NoError(t, err)
	assert.Equal(t, ResourceID(42), id)
	assert.Equal(t, "42", id.String())
	assert.False(t, id.IsZero())
}

func TestParseResourceID_Empty(t *testing.T) {
	_, err := ParseResourceID("")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestParseResourceID_NotANumber(t *testing.T) {
	_, err := ParseResourceID("abc")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestParseResourceID_Negative(t *testing.T) {
	_, err := ParseResourceID("-1")
	require.Error(t, err)
}

func TestParseTimeEntryID(t *testing.T) {
	id, err := ParseTimeEntryID("9001")
	require.NoError(t, err)
	assert.Equal(t, TimeEntryID(9001), id)
}

func TestZeroIDs(t *testing.T) {
	assert.True(t, ResourceID(0).IsZero())
	assert.True(t, ProjectID(0).IsZero())
	assert.True(t, TimeEntryID(0).IsZero())
	assert.True(t, TagID(0).IsZero())
}
