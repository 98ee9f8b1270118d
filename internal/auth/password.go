package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const unknownAccountSecret = "pos-identity/unknown-account"

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// unknownAccountHash lazily builds a hash at cost. Logins for unknown emails
// compare against it so they spend the same bcrypt time as real accounts.
func unknownAccountHash(cost int) func() string {
	return sync.OnceValue(func() string {
		hash, err := HashPassword(unknownAccountSecret, cost)
		if err != nil {
			return ""
		}
		return hash
	})
}
