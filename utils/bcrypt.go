package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password for storage. Default bcrypt cost
// is plenty for a login endpoint behind rate limiting.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// ComparePassword checks a plaintext password against a stored bcrypt hash.
func ComparePassword(hashed string, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
