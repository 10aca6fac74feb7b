package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a bcrypt hash of plain.  Costs outside bcrypt's
// accepted range fall back to the library default.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// placeholderHash is compared against when a login names an unknown email,
// keeping the response time independent of whether the account exists.
var placeholderHash, _ = bcrypt.GenerateFromPassword([]byte("staywise-placeholder"), bcrypt.DefaultCost)

// BurnPasswordCheck performs one bcrypt comparison and discards the result.
func BurnPasswordCheck(plain string) {
	_ = bcrypt.CompareHashAndPassword(placeholderHash, []byte(plain))
}
