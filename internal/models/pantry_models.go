package models

// DefaultMinStock is applied to products created without an explicit minimum.
const DefaultMinStock = 5

// DefaultExpiringThreshold is the window, in days, used for "expiring soon".
const DefaultExpiringThreshold = 7

// Location is a storage place such as a freezer, cellar or cupboard.
type Location struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`
}

// Category groups products. Deleting a category deletes its products.
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Product is a tracked pantry item.
type Product struct {
	ID                 int64   `json:"id" db:"id"`
	Name               string  `json:"name" db:"name"`
	URL                string  `json:"url" db:"url"`
	CategoryID         int64   `json:"category_id" db:"category_id"`
	Barcode            *string `json:"barcode,omitempty" db:"barcode"`
	ImageFrontSmallURL *string `json:"image_front_small_url,omitempty" db:"image_front_small_url"`
	MinStock           int     `json:"min_stock" db:"min_stock"`
	LocationID         *int64  `json:"location_id,omitempty" db:"location_id"`
	ExpiryDate         *Date   `json:"expiry_date,omitempty" db:"expiry_date"`
	Notes              *string `json:"notes,omitempty" db:"notes"`

	// Resolved by joins, not stored on the products row.
	CategoryName string  `json:"category" db:"-"`
	LocationName *string `json:"location,omitempty" db:"-"`
	Count        *Count  `json:"count,omitempty" db:"-"`
}

// Count is the current stock level of a product. Each product has at most one.
type Count struct {
	ID        int64 `json:"id" db:"id"`
	ProductID int64 `json:"product_id" db:"product_id"`
	Count     int   `json:"count" db:"count"`
}
