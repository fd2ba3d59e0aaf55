package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://cognito-idp.ap-northeast-1.amazonaws.com/ap-northeast-1_test"
	testAudience = "test-client-id"
)

func generateKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func staticFetcher(keys map[string]*rsa.PrivateKey, calls *int) KeyFetcher {
	return func(ctx context.Context) (map[string]*rsa.PublicKey, error) {
		if calls != nil {
			*calls++
		}
		out := map[string]*rsa.PublicKey{}
		for kid, key := range keys {
			out[kid] = &key.PublicKey
		}
		return out, nil
	}
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":      testIssuer,
		"aud":      testAudience,
		"exp":      time.Now().Add(time.Hour).Unix(),
		"sub":      "subject-123",
		"username": "alice",
		"email":    "alice@example.com",
	}
}

func TestVerify_ValidToken(t *testing.T) {
	key := generateKey(t)
	v := NewVerifier(NewKeyCache(staticFetcher(map[string]*rsa.PrivateKey{"k1": key}, nil)), testIssuer, testAudience)

	claims := validClaims()
	claims["cognito:groups"] = []any{"admin", "testers"}

	ident, err := v.Verify(context.Background(), signToken(t, key, "k1", claims))
	require.NoError(t, err)
	assert.Equal(t, "subject-123", ident.SubjectID)
	assert.Equal(t, "alice", ident.Username)
	assert.Equal(t, "alice@example.com", ident.Email)
	assert.Equal(t, []string{"admin", "testers"}, ident.Groups)
}

func TestVerify_ExpiredToken(t *testing.T) {
	key := generateKey(t)
	v := NewVerifier(NewKeyCache(staticFetcher(map[string]*rsa.PrivateKey{"k1": key}, nil)), testIssuer, testAudience)

	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Minute).Unix()

	_, err := v.Verify(context.Background(), signToken(t, key, "k1", claims))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerify_WrongAudience(t *testing.T) {
	key := generateKey(t)
	v := NewVerifier(NewKeyCache(staticFetcher(map[string]*rsa.PrivateKey{"k1": key}, nil)), testIssuer, testAudience)

	claims := validClaims()
	claims["aud"] = "another-client"

	_, err := v.Verify(context.Background(), signToken(t, key, "k1", claims))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerify_WrongIssuer(t *testing.T) {
	key := generateKey(t)
	v := NewVerifier(NewKeyCache(staticFetcher(map[string]*rsa.PrivateKey{"k1": key}, nil)), testIssuer, testAudience)

	claims := validClaims()
	claims["iss"] = "https://evil.example.com"

	_, err := v.Verify(context.Background(), signToken(t, key, "k1", claims))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerify_WrongKeyRejected(t *testing.T) {
	signingKey := generateKey(t)
	publishedKey := generateKey(t)
	v := NewVerifier(NewKeyCache(staticFetcher(map[string]*rsa.PrivateKey{"k1": publishedKey}, nil)), testIssuer, testAudience)

	_, err := v.Verify(context.Background(), signToken(t, signingKey, "k1", validClaims()))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerify_MissingSub(t *testing.T) {
	key := generateKey(t)
	v := NewVerifier(NewKeyCache(staticFetcher(map[string]*rsa.PrivateKey{"k1": key}, nil)), testIssuer, testAudience)

	claims := validClaims()
	delete(claims, "sub")

	_, err := v.Verify(context.Background(), signToken(t, key, "k1", claims))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestKeyCache_RefetchesOnUnknownKid(t *testing.T) {
	k1 := generateKey(t)
	k2 := generateKey(t)
	calls := 0
	cache := NewKeyCache(staticFetcher(map[string]*rsa.PrivateKey{"k1": k1, "k2": k2}, &calls))
	v := NewVerifier(cache, testIssuer, testAudience)

	_, err := v.Verify(context.Background(), signToken(t, k1, "k1", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	// Cached key is reused without another fetch.
	_, err = v.Verify(context.Background(), signToken(t, k1, "k1", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	// An unseen kid triggers exactly one refetch.
	_, err = v.Verify(context.Background(), signToken(t, k2, "k2", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestVerifyCallerMatches(t *testing.T) {
	ident := &Identity{SubjectID: "subject-123"}
	assert.NoError(t, VerifyCallerMatches("subject-123", ident))
	assert.ErrorIs(t, VerifyCallerMatches("someone-else", ident), ErrForbidden)
	assert.ErrorIs(t, VerifyCallerMatches("subject-123", nil), ErrForbidden)
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(&Identity{Groups: []string{"admin"}}))
	assert.ErrorIs(t, RequireAdmin(&Identity{Groups: []string{"testers"}}), ErrForbidden)
	assert.ErrorIs(t, RequireAdmin(&Identity{}), ErrForbidden)
	assert.ErrorIs(t, RequireAdmin(nil), ErrForbidden)
}
