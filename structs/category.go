package structs

// CreateCategoryRequest creates a category. Slug is optional; the service
// derives it from the name when omitted.
type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=80"`
	Slug  string `json:"slug" validate:"omitempty,max=80"`
	Image string `json:"image" validate:"omitempty"`
}

type UpdateCategoryRequest struct {
	Name     string `json:"name" validate:"omitempty,min=2,max=80"`
	Image    string `json:"image" validate:"omitempty"`
	IsActive *bool  `json:"is_active" validate:"omitempty"`
}

type CreateSubcategoryRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=80"`
	Slug     string `json:"slug" validate:"omitempty,max=80"`
	Image    string `json:"image" validate:"omitempty"`
	Icon     string `json:"icon" validate:"omitempty,max=40"`
	Position int    `json:"position" validate:"omitempty,gte=0"`
}

// UpdateSubcategoryRequest patches a subcategory in place. The slug is part
// of the identity and cannot be changed here.
type UpdateSubcategoryRequest struct {
	Name     string `json:"name" validate:"omitempty,min=2,max=80"`
	Image    string `json:"image" validate:"omitempty"`
	Icon     string `json:"icon" validate:"omitempty,max=40"`
	Position *int   `json:"position" validate:"omitempty,gte=0"`
}

type AssignFreeSubcategoryRequest struct {
	CategorySlug string `json:"category" validate:"required,max=80"`
}
