package tables

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	tableName       struct{}       `bun:"table:products,alias:p"`
	ID              uuid.UUID      `bun:"id,pk,type:uuid" json:"id"`
	Name            string         `bun:"name,notnull" json:"name"`
	Slug            string         `bun:"slug,notnull" json:"slug"`
	Price           uint64         `bun:"price,notnull" json:"price"` // stored in cents
	Description     string         `bun:"description" json:"description,omitempty"`
	CategorySlug    string         `bun:"category_slug" json:"category,omitempty"`
	SubcategorySlug string         `bun:"subcategory_slug" json:"subcategory,omitempty"`
	VendorID        uuid.UUID      `bun:"vendor_id,type:uuid" json:"vendor_id,omitempty"`
	ShopSlug        string         `bun:"shop_slug" json:"shop,omitempty"`
	Stock           uint32         `bun:"stock" json:"stock,omitempty"`
	IsActive        bool           `bun:"is_active,notnull" json:"is_active"`
	CreatedAt       time.Time      `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt       time.Time      `bun:"updated_at,notnull,default:now()" json:"updated_at"`
	Images          []ProductImage `bun:"rel:has-many,join:id=product_id" json:"images,omitempty"` // slice is nil if no images
}

// ProductImage represents an image for a product. URL is either a fully
// qualified external URL or a bounded base64 payload; transient blob
// references never reach this table.
type ProductImage struct {
	tableName struct{}  `bun:"table:product_images,alias:pi"`
	ID        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	ProductID uuid.UUID `bun:"product_id,type:uuid,notnull" json:"product_id"`
	URL       string    `bun:"url,notnull" json:"url"`
	AltText   string    `bun:"alt_text" json:"alt_text,omitempty"` // optional, empty string if none
	IsPrimary bool      `bun:"is_primary,notnull" json:"is_primary"`
	Position  int       `bun:"position" json:"position"`
}
