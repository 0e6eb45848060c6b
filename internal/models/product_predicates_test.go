package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refDate = NewDate(2024, time.March, 10)

func TestProduct_IsLowStock(t *testing.T) {
	tests := []struct {
		name  string
		count *Count
		min   int
		want  bool
	}{
		{"never counted", nil, 5, false},
		{"below minimum", &Count{Count: 4}, 5, true},
		{"at minimum", &Count{Count: 5}, 5, true},
		{"above minimum", &Count{Count: 6}, 5, false},
		{"zero minimum and empty", &Count{Count: 0}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{MinStock: tt.min, Count: tt.count}
			assert.Equal(t, tt.want, p.IsLowStock())
		})
	}
}

func TestProduct_ExpiryPredicates(t *testing.T) {
	tests := []struct {
		name         string
		offset       int
		wantExpired  bool
		wantExpiring bool
	}{
		{"yesterday", -1, true, false},
		{"today", 0, false, true},
		{"in one week", 7, false, true},
		{"in eight days", 8, false, false},
		{"long expired", -30, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expiry := refDate.AddDays(tt.offset)
			p := &Product{ExpiryDate: &expiry}

			days := p.DaysUntilExpiry(refDate)
			require.NotNil(t, days)
			assert.Equal(t, tt.offset, *days)
			assert.Equal(t, tt.wantExpired, p.IsExpired(refDate))
			assert.Equal(t, tt.wantExpiring, p.IsExpiringSoon(refDate, DefaultExpiringThreshold))
		})
	}
}

func TestProduct_NoExpiryDate(t *testing.T) {
	p := &Product{}
	assert.Nil(t, p.DaysUntilExpiry(refDate))
	assert.False(t, p.IsExpired(refDate))
	assert.False(t, p.IsExpiringSoon(refDate, DefaultExpiringThreshold))
}

func TestProduct_ExpiryAcrossMonthBoundary(t *testing.T) {
	expiry := NewDate(2024, time.March, 1)
	p := &Product{ExpiryDate: &expiry}
	today := NewDate(2024, time.February, 28)

	days := p.DaysUntilExpiry(today)
	require.NotNil(t, days)
	assert.Equal(t, 2, *days, "2024 is a leap year")
}
