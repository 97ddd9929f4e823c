package comments

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDraftBounds(t *testing.T) {
	tests := []struct {
		length int
		valid  bool
	}{
		{0, false},
		{9, false},
		{10, true},
		{100, true},
		{200, true},
		{201, false},
	}
	for _, tt := range tests {
		err := ValidateDraft(strings.Repeat("a", tt.length))
		if tt.valid && err != nil {
			t.Errorf("ValidateDraft(len %d) = %v, want nil", tt.length, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("ValidateDraft(len %d) = nil, want error", tt.length)
		}
	}
}

func TestValidateDraftCountsBeforeTrim(t *testing.T) {
	// eight letters padded to ten characters
	assert.NoError(t, ValidateDraft(" abcdefgh "))
}

func TestValidateDraftCountsCharacters(t *testing.T) {
	// ten characters, twenty bytes
	assert.NoError(t, ValidateDraft(strings.Repeat("é", 10)))
	assert.Error(t, ValidateDraft(strings.Repeat("é", 201)))
}

func TestValidateDraftMessage(t *testing.T) {
	err := ValidateDraft("short")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Comments must be at least 10 characters.", ve.Message("content"))
	assert.Empty(t, ve.Message("post"))
}

func TestValidateNew(t *testing.T) {
	assert.NoError(t, ValidateNew(NewComment{Content: "x", Post: "p", UserID: "u"}))
	assert.NoError(t, ValidateNew(NewComment{Content: strings.Repeat("a", 1024), Post: "p", UserID: "u"}))

	err := ValidateNew(NewComment{Content: "   ", Post: "", UserID: ""})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Fields, 3)
	assert.Equal(t, "Required", ve.Message("content"))
	assert.Equal(t, "Required", ve.Message("post"))
	assert.Equal(t, "Required", ve.Message("userId"))

	err = ValidateNew(NewComment{Content: strings.Repeat("a", 1025), Post: "p", UserID: "u"})
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Message("content"), "1024")
}
