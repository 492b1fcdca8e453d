package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is fixed for the life of the system since hashes are persisted.
const BcryptCost = 12

// HashPassword hashes a plaintext password with a per-call random salt.
// Hashing the same input twice yields two different stored values.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword reports whether plaintext matches the stored hash.
// bcrypt's comparison is constant-time with respect to the mismatch position.
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
