// File: internal/common/password.go
package common

import "golang.org/x/crypto/bcrypt"

// bcryptCost is fixed policy, high enough to resist offline brute force.
const bcryptCost = 12

// HashPassword computes a salted bcrypt hash of the plaintext password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash verifies a plaintext password against a bcrypt hash using
// bcrypt's own comparison primitive. Never re-hash and string-compare.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
