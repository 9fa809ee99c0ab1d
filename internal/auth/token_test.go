package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuedAt = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestManager(t *testing.T, secret string, now time.Time) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(secret, DefaultTokenTTL)
	require.NoError(t, err)
	return m.WithClock(fixedClock(now))
}

func unverifiedClaims(t *testing.T, tok string) *Claims {
	t.Helper()
	claims := &Claims{}
	_, _, err := jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)
	return claims
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager("", time.Hour)
	assert.Error(t, err)
}

func TestNewTokenManager_DefaultTTL(t *testing.T) {
	t.Parallel()

	m, err := NewTokenManager("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour, m.TTL())
}

func TestIssueAndValidate_Success(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, "super-secret", issuedAt)

	tok, err := m.Issue("alice")
	require.NoError(t, err)

	got, err := m.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
}

func TestValidate_ValidityWindow(t *testing.T) {
	t.Parallel()

	tok, err := newTestManager(t, "secret", issuedAt).Issue("alice")
	require.NoError(t, err)

	accepted := []time.Duration{0, time.Second, time.Hour, 5*time.Hour + 59*time.Minute + 59*time.Second, 6*time.Hour - time.Nanosecond}
	for _, d := range accepted {
		_, err := newTestManager(t, "secret", issuedAt.Add(d)).Validate(tok)
		assert.NoError(t, err, "token should be valid at +%v", d)
	}

	rejected := []time.Duration{6 * time.Hour, 6*time.Hour + time.Second, 7 * time.Hour, 30 * 24 * time.Hour}
	for _, d := range rejected {
		_, err := newTestManager(t, "secret", issuedAt.Add(d)).Validate(tok)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token should be rejected at +%v", d)
	}
}

func TestIssue_SubSecondClock(t *testing.T) {
	t.Parallel()

	clock := issuedAt.Add(900 * time.Millisecond)
	tok, err := newTestManager(t, "secret", clock).Issue("alice")
	require.NoError(t, err)

	claims := unverifiedClaims(t, tok)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.IssuedAt.Time.Equal(issuedAt))
	assert.Equal(t, DefaultTokenTTL, claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time))

	// Valid at the issuing instant and for the whole window after iat.
	for _, at := range []time.Time{clock, issuedAt.Add(DefaultTokenTTL - 500*time.Millisecond), issuedAt.Add(DefaultTokenTTL - time.Nanosecond)} {
		_, err := newTestManager(t, "secret", at).Validate(tok)
		assert.NoError(t, err, "token should be valid at %v", at)
	}

	_, err = newTestManager(t, "secret", issuedAt.Add(DefaultTokenTTL)).Validate(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newTestManager(t, "right-secret", issuedAt).Issue("alice")
	require.NoError(t, err)

	_, err = newTestManager(t, "wrong-secret", issuedAt).Validate(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_EveryBitFlipRejected(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, "secret", issuedAt)
	tok, err := m.Issue("alice")
	require.NoError(t, err)

	raw := []byte(tok)
	for i := range raw {
		for bit := 0; bit < 8; bit++ {
			tampered := make([]byte, len(raw))
			copy(tampered, raw)
			tampered[i] ^= 1 << bit

			_, err := m.Validate(string(tampered))
			require.Error(t, err, "tampered token accepted (byte %d, bit %d)", i, bit)
		}
	}
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, "secret", issuedAt)
	for _, tok := range []string{"", "not.a.jwt", "abc", "a.b.c.d"} {
		_, err := m.Validate(tok)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", tok)
	}
}

func TestValidate_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	// {"alg":"none","typ":"JWT"}.{"iss":"club-api","sub":"alice","exp":4102444800}.
	tok := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJpc3MiOiJjbHViLWFwaSIsInN1YiI6ImFsaWNlIiwiZXhwIjo0MTAyNDQ0ODAwfQ."

	_, err := newTestManager(t, "secret", issuedAt).Validate(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
