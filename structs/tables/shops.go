package tables

import (
	"time"

	"github.com/google/uuid"
)

type Shop struct {
	tableName struct{}  `bun:"table:shops,alias:s"`
	Slug      string    `bun:"slug,pk" json:"slug"`
	Name      string    `bun:"name,notnull" json:"name"`
	VendorID  uuid.UUID `bun:"vendor_id,type:uuid" json:"vendor_id,omitempty"`
	Logo      string    `bun:"logo" json:"logo,omitempty"`
	IsActive  bool      `bun:"is_active,notnull" json:"is_active"`
	CreatedAt time.Time `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:now()" json:"updated_at"`
}
