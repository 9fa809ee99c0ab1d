package auth

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the username does not exist, so that
// lookups for unknown users cost about as much as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("club-api-unknown-user"), bcrypt.DefaultCost)
	if err != nil {
		panic("failed to build dummy password hash: " + err.Error())
	}
	return hash
})

// HashPassword returns a bcrypt hash of plaintext. A cost of 0 selects bcrypt.DefaultCost.
func HashPassword(plaintext string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches storedHash.
// A malformed hash is treated as a mismatch.
func VerifyPassword(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}

// VerifyAgainstDummy performs a throwaway comparison and always returns false.
func VerifyAgainstDummy(plaintext string) bool {
	_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(plaintext))
	return false
}
