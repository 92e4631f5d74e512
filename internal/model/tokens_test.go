package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNullToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"N/A", true},
		{"n/a", true},
		{"null", true},
		{"NULL", true},
		{"None", true},
		{"-", true},
		{"NaN", true},
		{"  na  ", true},
		{"0", false},
		{"false", false},
		{"--", false},
		{"n/a value", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsNullToken(tt.in), "%q", tt.in)
	}
}

func TestBooleanTokens(t *testing.T) {
	t.Parallel()

	assert.True(t, IsTrueToken("TRUE"))
	assert.True(t, IsTrueToken(" y "))
	assert.True(t, IsTrueToken("1"))
	assert.False(t, IsTrueToken("no"))
	assert.False(t, IsTrueToken("maybe"))

	assert.True(t, IsBooleanToken("yes"))
	assert.True(t, IsBooleanToken("F"))
	assert.True(t, IsBooleanToken("0"))
	assert.False(t, IsBooleanToken("2"))
	assert.False(t, IsBooleanToken("truthy"))
}

func TestFileMetadataFailed(t *testing.T) {
	t.Parallel()

	ok := FileMetadata{Input: "a.csv"}
	assert.False(t, ok.Failed())

	bad := FileMetadata{Input: "b.csv", Error: "boom"}
	assert.True(t, bad.Failed())
}
