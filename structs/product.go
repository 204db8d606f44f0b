package structs

import "github.com/google/uuid"

// CreateProductRequest creates a product. Images accepts bare URL strings and
// full objects in the same array.
type CreateProductRequest struct {
	Name        string       `json:"name" validate:"required,min=2,max=120"`
	Slug        string       `json:"slug" validate:"omitempty,max=120"`
	Price       uint64       `json:"price" validate:"required,gte=1"`
	Description string       `json:"description" validate:"omitempty,max=4000"`
	Category    string       `json:"category" validate:"omitempty,max=80"`
	Subcategory string       `json:"subcategory" validate:"omitempty,max=80"`
	Shop        string       `json:"shop" validate:"omitempty,max=80"`
	VendorID    uuid.UUID    `json:"vendor_id" validate:"omitempty"`
	Stock       uint32       `json:"stock" validate:"omitempty"`
	Images      []ImageInput `json:"images" validate:"omitempty,max=12"`
}

// UpdateProductRequest updates a product. Nil pointer fields are left alone;
// a non-nil Images slice replaces the whole image list.
type UpdateProductRequest struct {
	Name        *string      `json:"name" validate:"omitempty,min=2,max=120"`
	Price       *uint64      `json:"price" validate:"omitempty,gte=1"`
	Description *string      `json:"description" validate:"omitempty,max=4000"`
	Category    *string      `json:"category" validate:"omitempty,max=80"`
	Subcategory *string      `json:"subcategory" validate:"omitempty,max=80"`
	Shop        *string      `json:"shop" validate:"omitempty,max=80"`
	Stock       *uint32      `json:"stock" validate:"omitempty"`
	IsActive    *bool        `json:"is_active" validate:"omitempty"`
	Images      []ImageInput `json:"images" validate:"omitempty,max=12"`
}
