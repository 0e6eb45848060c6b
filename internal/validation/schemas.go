package validation

import (
	"pantry_tracker/internal/models"
)

// CategoryInput is a validated create-category payload.
type CategoryInput struct {
	Name string
}

// CategoryRenameInput is a validated rename-category payload.
type CategoryRenameInput struct {
	NewName string
}

// LocationInput is a validated create or update location payload.
type LocationInput struct {
	Name        string
	Description models.Optional[string]
}

// ProductCreateInput is a validated create-product payload. Category and
// Location are names; they are resolved to ids by the services.
type ProductCreateInput struct {
	Name               string
	URL                string
	Category           string
	Barcode            models.Optional[string]
	ImageFrontSmallURL models.Optional[string]
	MinStock           int
	Location           models.Optional[string]
	ExpiryDate         models.Optional[models.Date]
	Notes              models.Optional[string]
}

// ProductUpdateInput is a validated partial product update. Absent fields
// are left unchanged, null fields are cleared.
type ProductUpdateInput struct {
	NewName            models.Optional[string]
	URL                models.Optional[string]
	Category           models.Optional[string]
	Barcode            models.Optional[string]
	ImageFrontSmallURL models.Optional[string]
	MinStock           models.Optional[int]
	Location           models.Optional[string]
	ExpiryDate         models.Optional[models.Date]
	Notes              models.Optional[string]
}

type categoryForm struct {
	Name    *string `json:"name" binding:"omitnil,min=1,max=50,notblank"`
	NewName *string `json:"new_name" binding:"omitnil,min=1,max=50,notblank"`
}

type locationForm struct {
	Name        *string `json:"name" binding:"omitnil,min=1,max=50"`
	Description *string `json:"description" binding:"omitnil,max=200"`
}

type productForm struct {
	Name               *string `json:"name" binding:"omitnil,min=1,max=100"`
	NewName            *string `json:"new_name" binding:"omitnil,min=1,max=100"`
	URL                *string `json:"url" binding:"omitnil,weburl,max=200"`
	Category           *string `json:"category" binding:"omitnil,min=1,max=50"`
	Barcode            *string `json:"barcode" binding:"omitnil,digits,min=8,max=13"`
	ImageFrontSmallURL *string `json:"image_front_small_url" binding:"omitnil,weburl"`
	MinStock           *int    `json:"min_stock" binding:"omitnil,min=0,max=1000"`
	Location           *string `json:"location" binding:"omitnil,min=1,max=50"`
	Notes              *string `json:"notes" binding:"omitnil,max=500"`
}

var productFields = []string{
	"url", "category", "barcode", "image_front_small_url",
	"min_stock", "location", "expiry_date", "notes",
}

// ValidateCategory validates a create-category payload.
func ValidateCategory(raw map[string]any) (*CategoryInput, error) {
	d := newDecoder(raw, "name")
	name := d.str("name", required)
	d.check(&categoryForm{Name: name.Ptr()})
	if !d.errs.Empty() {
		return nil, d.errs
	}
	return &CategoryInput{Name: name.OrElse("")}, nil
}

// ValidateCategoryRename validates a rename-category payload.
func ValidateCategoryRename(raw map[string]any) (*CategoryRenameInput, error) {
	d := newDecoder(raw, "new_name")
	newName := d.str("new_name", required)
	d.check(&categoryForm{NewName: newName.Ptr()})
	if !d.errs.Empty() {
		return nil, d.errs
	}
	return &CategoryRenameInput{NewName: newName.OrElse("")}, nil
}

// ValidateLocation validates a create or update location payload.
func ValidateLocation(raw map[string]any) (*LocationInput, error) {
	d := newDecoder(raw, "name", "description")
	in := &LocationInput{
		Description: d.str("description", nullable),
	}
	name := d.str("name", required)
	d.check(&locationForm{Name: name.Ptr(), Description: in.Description.Ptr()})
	if !d.errs.Empty() {
		return nil, d.errs
	}
	in.Name = name.OrElse("")
	return in, nil
}

// ValidateProductCreate validates a create-product payload and applies the
// min_stock default.
func ValidateProductCreate(raw map[string]any) (*ProductCreateInput, error) {
	d := newDecoder(raw, append([]string{"name"}, productFields...)...)
	name := d.str("name", required)
	url := d.str("url", required)
	category := d.str("category", required)
	minStock := d.integer("min_stock", 0)
	in := &ProductCreateInput{
		Barcode:            emptyAsNull(d.str("barcode", nullable)),
		ImageFrontSmallURL: d.str("image_front_small_url", nullable),
		Location:           d.str("location", nullable),
		ExpiryDate:         d.date("expiry_date", nullable),
		Notes:              d.str("notes", nullable),
	}
	d.check(&productForm{
		Name:               name.Ptr(),
		URL:                url.Ptr(),
		Category:           category.Ptr(),
		Barcode:            in.Barcode.Ptr(),
		ImageFrontSmallURL: in.ImageFrontSmallURL.Ptr(),
		MinStock:           minStock.Ptr(),
		Location:           in.Location.Ptr(),
		Notes:              in.Notes.Ptr(),
	})
	if !d.errs.Empty() {
		return nil, d.errs
	}
	in.Name = name.OrElse("")
	in.URL = url.OrElse("")
	in.Category = category.OrElse("")
	in.MinStock = minStock.OrElse(models.DefaultMinStock)
	return in, nil
}

// ValidateProductUpdate validates a partial product update.
func ValidateProductUpdate(raw map[string]any) (*ProductUpdateInput, error) {
	d := newDecoder(raw, append([]string{"new_name"}, productFields...)...)
	in := &ProductUpdateInput{
		NewName:            d.str("new_name", 0),
		URL:                d.str("url", 0),
		Category:           d.str("category", 0),
		Barcode:            emptyAsNull(d.str("barcode", nullable)),
		ImageFrontSmallURL: d.str("image_front_small_url", nullable),
		MinStock:           d.integer("min_stock", 0),
		Location:           d.str("location", nullable),
		ExpiryDate:         d.date("expiry_date", nullable),
		Notes:              d.str("notes", nullable),
	}
	d.check(&productForm{
		NewName:            in.NewName.Ptr(),
		URL:                in.URL.Ptr(),
		Category:           in.Category.Ptr(),
		Barcode:            in.Barcode.Ptr(),
		ImageFrontSmallURL: in.ImageFrontSmallURL.Ptr(),
		MinStock:           in.MinStock.Ptr(),
		Location:           in.Location.Ptr(),
		Notes:              in.Notes.Ptr(),
	})
	if !d.errs.Empty() {
		return nil, d.errs
	}
	return in, nil
}

// emptyAsNull treats an empty barcode as a request to clear it.
func emptyAsNull(o models.Optional[string]) models.Optional[string] {
	if v, ok := o.Get(); ok && v == "" {
		return models.Null[string]()
	}
	return o
}
