package auth

import (
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(v *Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(v))
	r.GET("/whoami", func(c *gin.Context) {
		ident := IdentityFrom(c)
		if ident == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no identity"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sub": ident.SubjectID})
	})
	return r
}

func TestMiddleware_RejectsMissingToken(t *testing.T) {
	key := generateKey(t)
	v := NewVerifier(NewKeyCache(staticFetcher(map[string]*rsa.PrivateKey{"k1": key}, nil)), testIssuer, testAudience)
	r := newProtectedRouter(v)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Basic abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_RejectsInvalidToken(t *testing.T) {
	key := generateKey(t)
	v := NewVerifier(NewKeyCache(staticFetcher(map[string]*rsa.PrivateKey{"k1": key}, nil)), testIssuer, testAudience)
	r := newProtectedRouter(v)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_PassesValidToken(t *testing.T) {
	key := generateKey(t)
	v := NewVerifier(NewKeyCache(staticFetcher(map[string]*rsa.PrivateKey{"k1": key}, nil)), testIssuer, testAudience)
	r := newProtectedRouter(v)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, key, "k1", validClaims()))
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "subject-123")
}
