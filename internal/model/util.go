package model

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// generateSecureID creates a random ID with a prefix
func generateSecureID(prefix string) string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return fmt.Sprintf("%s%s", prefix, base64.RawURLEncoding.EncodeToString(b))
}

// All lists every model owned by the service, in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Organization{},
		&Membership{},
		&Application{},
		&Project{},
		&Donation{},
		&FavoriteProject{},
		&RefreshToken{},
	}
}
