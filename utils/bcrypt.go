package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes an owner's login password at bcrypt's default cost.
func HashPassword(s string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
}

// ComparePassword reports a non-nil error when the plain password does not
// match the stored hash.
func ComparePassword(hashed string, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
