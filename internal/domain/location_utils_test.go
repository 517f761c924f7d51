package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "already normalized", input: "Kilimani", expected: "Kilimani"},
		{name: "lower case", input: "kilimani", expected: "Kilimani"},
		{name: "extra spaces", input: "  South   B ", expected: "South B"},
		{name: "alias", input: "Westie", expected: "Westlands"},
		{name: "alias with spaces", input: " ruaka  town", expected: "Ruaka"},
		{name: "empty", input: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeLocation(tt.input))
		})
	}
}

func TestLocationsMatch(t *testing.T) {
	assert.True(t, LocationsMatch("Kilimani", "kilimani"))
	assert.True(t, LocationsMatch("kile", "Kilimani"))
	assert.True(t, LocationsMatch("South  C", "south c"))
	assert.False(t, LocationsMatch("Kilimani", "Kileleshwa"))
	assert.False(t, LocationsMatch("", ""))
	assert.False(t, LocationsMatch("Kilimani", ""))
}
