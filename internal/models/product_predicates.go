package models

// IsLowStock reports whether the product's count is at or below its minimum.
// A product that has never been counted is not low on stock.
func (p *Product) IsLowStock() bool {
	if p.Count == nil {
		return false
	}
	return p.Count.Count <= p.MinStock
}

// DaysUntilExpiry returns the number of days from today until the expiry
// date, or nil when the product has no expiry date.
func (p *Product) DaysUntilExpiry(today Date) *int {
	if p.ExpiryDate == nil {
		return nil
	}
	days := p.ExpiryDate.DaysSince(today)
	return &days
}

// IsExpired reports whether the expiry date lies before today.
func (p *Product) IsExpired(today Date) bool {
	days := p.DaysUntilExpiry(today)
	return days != nil && *days < 0
}

// IsExpiringSoon reports whether the product expires within threshold days,
// today included.
func (p *Product) IsExpiringSoon(today Date, threshold int) bool {
	days := p.DaysUntilExpiry(today)
	return days != nil && *days >= 0 && *days <= threshold
}
