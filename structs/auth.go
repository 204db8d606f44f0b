package structs

import (
	"time"

	"github.com/google/uuid"
)

// AuthClaims are the JWT claims the admin panel sends with every request.
// Token issuance lives in the identity service; this server only verifies.
type AuthClaims struct {
	Sub   uuid.UUID `json:"sub"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
	Iat   time.Time `json:"iat"`
	Exp   time.Time `json:"exp"`
	Jti   uuid.UUID `json:"jti"`
}
