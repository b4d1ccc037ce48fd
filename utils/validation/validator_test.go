package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pick struct {
	ID   string `validate:"required"`
	Kind string `validate:"required,oneof=institution course"`
}

func TestFormatValidationErrors(t *testing.T) {
	v := NewValidator()

	err := v.ValidateStruct(pick{Kind: "review"})
	require.Error(t, err)

	assert.Equal(t, map[string]string{
		"id":   "ID is required",
		"kind": "Kind must be one of: institution, course",
	}, FormatValidationErrors(err))

	assert.NoError(t, v.ValidateStruct(pick{ID: "x", Kind: "course"}))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString(" a\x00bc \n"))
}
