package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeOrigin(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Already normalized", "https://app.example.com", "https://app.example.com"},
		{"Trailing slash", "https://app.example.com/", "https://app.example.com"},
		{"Mixed case", "HTTPS://App.Example.COM", "https://app.example.com"},
		{"Surrounding whitespace", "  https://app.example.com ", "https://app.example.com"},
		{"With port", "http://localhost:3000/", "http://localhost:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeOrigin(tt.input))
		})
	}
}
