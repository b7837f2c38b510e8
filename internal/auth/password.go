package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes plaintext with bcrypt at the default cost. The salt is
// embedded in the returned hash.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares plaintext against a stored hash. bcrypt's
// comparison is constant-time with respect to the hash content.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
