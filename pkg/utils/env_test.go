package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetenv(t *testing.T) {
	t.Setenv("PANTRY_TEST_VALUE", "")
	assert.Equal(t, "fallback", Getenv("PANTRY_TEST_VALUE", "fallback"))

	t.Setenv("PANTRY_TEST_VALUE", "set")
	assert.Equal(t, "set", Getenv("PANTRY_TEST_VALUE", "fallback"))
}

func TestGetenvBool(t *testing.T) {
	tests := []struct {
		value    string
		fallback bool
		want     bool
	}{
		{"", true, true},
		{"1", false, true},
		{"false", true, false},
		{"maybe", true, true},
	}
	for _, tt := range tests {
		t.Setenv("PANTRY_TEST_FLAG", tt.value)
		assert.Equal(t, tt.want, GetenvBool("PANTRY_TEST_FLAG", tt.fallback), tt.value)
	}
}
