package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFirstName(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		expected string
	}{
		{name: "simple name", fullName: "Jane Smith", expected: "Jane"},
		{name: "honorific dropped", fullName: "Sen. Jane Smith", expected: "Jane"},
		{name: "nickname dropped", fullName: `James "Jim" Jordan`, expected: "James"},
		{name: "single token", fullName: "Cher", expected: "Cher"},
		{name: "empty", fullName: "", expected: ""},
		{name: "only honorific", fullName: "Dr.", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractFirstName(tt.fullName))
		})
	}
}

func TestExtractLastName(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		expected string
	}{
		{name: "simple name", fullName: "Jane Smith", expected: "Smith"},
		{name: "suffix dropped", fullName: "Martin Luther King Jr.", expected: "King"},
		{name: "middle name kept out", fullName: "Jane Q Smith", expected: "Smith"},
		{name: "trailing comma trimmed", fullName: "Smith, Jane", expected: "Jane"},
		{name: "single token", fullName: "Cher", expected: "Cher"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractLastName(tt.fullName))
		})
	}
}

func TestIsShouting(t *testing.T) {
	assert.True(t, IsShouting("JANE SMITH"))
	assert.True(t, IsShouting("JANE-SMITH III"))
	assert.False(t, IsShouting("Jane Smith"))
	assert.False(t, IsShouting("JANE Smith"))
	assert.False(t, IsShouting(""))
	assert.False(t, IsShouting("12345"))
}

func TestCorrectCapitalization(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "all caps", input: "JANE SMITH", expected: "Jane Smith"},
		{name: "mc prefix", input: "KATE MCDONALD", expected: "Kate McDonald"},
		{name: "apostrophe", input: "SEAN O'BRIEN", expected: "Sean O'Brien"},
		{name: "hyphenated", input: "MARY SMITH-JONES", expected: "Mary Smith-Jones"},
		{name: "suffix preserved", input: "JOHN DOE III", expected: "John Doe III"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CorrectCapitalization(tt.input))
		})
	}
}
