package auth

import "golang.org/x/crypto/bcrypt"

// BcryptVerifier checks a plaintext password against a stored bcrypt hash.
type BcryptVerifier struct{}

func NewBcryptVerifier() BcryptVerifier {
	return BcryptVerifier{}
}

func (BcryptVerifier) Verify(plain, hash string) bool {
	if plain == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
