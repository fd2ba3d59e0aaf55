package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrUnauthenticated covers every token verification failure: bad
	// signature, wrong audience or issuer, expiry, malformed token, unknown
	// key id after refresh.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when the caller is authenticated but not
	// allowed: subject mismatch or missing admin membership.
	ErrForbidden = errors.New("forbidden")
)

// AdminGroup is the group-claim value gating the batch endpoints.
const AdminGroup = "admin"

// Identity is the verified caller extracted from a bearer token.
type Identity struct {
	SubjectID string
	Username  string
	Email     string
	Groups    []string
}

// Verifier validates RS256 bearer tokens against the issuer's key set.
// Construct once per process and inject by reference; the clock is
// injectable for tests.
type Verifier struct {
	cache    *KeyCache
	issuer   string
	audience string
	now      func() time.Time
}

func NewVerifier(cache *KeyCache, issuer, audience string) *Verifier {
	return &Verifier{cache: cache, issuer: issuer, audience: audience, now: time.Now}
}

// WithClock overrides the verifier's time source.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	v.now = now
	return v
}

// Verify checks signature, issuer, audience and expiry, returning the
// caller's identity. Every failure mode surfaces as ErrUnauthenticated.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, fmt.Errorf("%w: empty token", ErrUnauthenticated)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithTimeFunc(v.now),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)

	claims := jwt.MapClaims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if strings.TrimSpace(kid) == "" {
			return nil, fmt.Errorf("missing kid header")
		}
		return v.cache.Key(ctx, kid)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if tok == nil || !tok.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	}

	sub, _ := claims["sub"].(string)
	if strings.TrimSpace(sub) == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrUnauthenticated)
	}

	ident := &Identity{SubjectID: sub}
	if name, _ := claims["username"].(string); name != "" {
		ident.Username = name
	} else if name, _ := claims["cognito:username"].(string); name != "" {
		ident.Username = name
	}
	if email, _ := claims["email"].(string); email != "" {
		ident.Email = email
	}
	if raw, ok := claims["cognito:groups"].([]any); ok {
		for _, g := range raw {
			if s, ok := g.(string); ok {
				ident.Groups = append(ident.Groups, s)
			}
		}
	}
	return ident, nil
}

// VerifyCallerMatches rejects requests whose user_id parameter does not
// belong to the verified caller. Every user-scoped endpoint must call it.
func VerifyCallerMatches(providedUserID string, ident *Identity) error {
	if ident == nil || providedUserID != ident.SubjectID {
		return fmt.Errorf("%w: user_id does not match the authenticated subject", ErrForbidden)
	}
	return nil
}

// RequireAdmin gates the batch endpoints on admin group membership.
func RequireAdmin(ident *Identity) error {
	if ident != nil {
		for _, g := range ident.Groups {
			if g == AdminGroup {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: admin membership required", ErrForbidden)
}
