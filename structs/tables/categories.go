package tables

import (
	"time"

	"github.com/google/uuid"
)

// Category is a top-level product grouping, identified by a globally unique slug.
type Category struct {
	tableName     struct{}      `bun:"table:categories,alias:c"`
	Slug          string        `bun:"slug,pk" json:"slug"`
	Name          string        `bun:"name,notnull" json:"name"`
	Image         string        `bun:"image" json:"image,omitempty"`
	IsActive      bool          `bun:"is_active,notnull" json:"is_active"`
	CreatedAt     time.Time     `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt     time.Time     `bun:"updated_at,notnull,default:now()" json:"updated_at"`
	Subcategories []Subcategory `bun:"rel:has-many,join:slug=category_slug" json:"subcategories,omitempty"`
}

// Subcategory belongs to exactly one category. Its slug is unique within the
// owning category only, not globally.
type Subcategory struct {
	tableName    struct{}  `bun:"table:subcategories,alias:sc"`
	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	CategorySlug string    `bun:"category_slug,notnull" json:"category_slug"`
	Slug         string    `bun:"slug,notnull" json:"slug"`
	Name         string    `bun:"name,notnull" json:"name"`
	Image        string    `bun:"image" json:"image,omitempty"`
	Icon         string    `bun:"icon" json:"icon,omitempty"`
	Position     int       `bun:"position" json:"position"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
}

// FreeSubcategory is a subcategory whose owning category was deleted. It keeps
// provenance so an admin can see where it came from, and a denormalized product
// count so the pool can be triaged without joining products.
type FreeSubcategory struct {
	tableName            struct{}  `bun:"table:free_subcategories,alias:fsc"`
	ID                   uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Slug                 string    `bun:"slug,notnull" json:"slug"`
	Name                 string    `bun:"name,notnull" json:"name"`
	Image                string    `bun:"image" json:"image,omitempty"`
	Icon                 string    `bun:"icon" json:"icon,omitempty"`
	OriginalCategoryName string    `bun:"original_category_name" json:"originalCategoryName"`
	OriginalCategorySlug string    `bun:"original_category_slug" json:"originalCategorySlug"`
	ProductCount         int       `bun:"product_count" json:"productCount"`
	CreatedAt            time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
}

// Demote converts an owned subcategory into a free one, stamping provenance.
// The inverse (assignment) discards provenance again; see CategoryService.
func Demote(sub Subcategory, owner Category, productCount int) FreeSubcategory {
	return FreeSubcategory{
		ID:                   uuid.New(),
		Slug:                 sub.Slug,
		Name:                 sub.Name,
		Image:                sub.Image,
		Icon:                 sub.Icon,
		OriginalCategoryName: owner.Name,
		OriginalCategorySlug: owner.Slug,
		ProductCount:         productCount,
	}
}
