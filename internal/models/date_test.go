package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())

	_, err = ParseDate("2023-02-29")
	assert.Error(t, err)
	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)
}

func TestDate_Scan(t *testing.T) {
	want := NewDate(2024, time.May, 1)
	tests := []struct {
		name string
		src  any
	}{
		{"time value", time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)},
		{"text", "2024-05-01"},
		{"bytes", []byte("2024-05-01")},
		{"timestamp text", "2024-05-01 00:00:00+00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, want, d)
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))
}

func TestDate_Value(t *testing.T) {
	v, err := NewDate(2024, time.December, 31).Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", v)
}

func TestDate_JSON(t *testing.T) {
	data, err := json.Marshal(NewDate(2025, time.January, 2))
	require.NoError(t, err)
	assert.JSONEq(t, `"2025-01-02"`, string(data))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-01-02"`), &d))
	assert.Equal(t, NewDate(2025, time.January, 2), d)
	assert.Error(t, json.Unmarshal([]byte(`"tomorrow"`), &d))
}
