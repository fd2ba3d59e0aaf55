package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/knakai/examprep/internal/dto"
	"github.com/rs/zerolog/log"
)

const identityKey = "auth.identity"

// Middleware validates the Authorization header and stores the verified
// identity on the request context. Requests without a valid bearer token
// are rejected with 401.
func Middleware(verifier *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing bearer token"})
			return
		}

		ident, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			log.Warn().Err(err).Str("path", c.FullPath()).Msg("Token verification failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
			return
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by Middleware, or nil.
func IdentityFrom(c *gin.Context) *Identity {
	if v, ok := c.Get(identityKey); ok {
		if ident, ok := v.(*Identity); ok {
			return ident
		}
	}
	return nil
}

// SetIdentity injects an identity directly; used by handler tests.
func SetIdentity(c *gin.Context, ident *Identity) {
	c.Set(identityKey, ident)
}
