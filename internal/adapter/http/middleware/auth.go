package middleware

import (
	"context"
	"net/http"
	"strings"

	"gestao_oficina/internal/domain/entities"
	"gestao_oficina/pkg"
	"gestao_oficina/pkg/logger"

	"github.com/gin-gonic/gin"
)

const sessionKey = "auth_session"

var (
	errMissingToken = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Missing bearer token", http.StatusUnauthorized)
	errBadToken     = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Invalid or expired token", http.StatusUnauthorized)
	errForbidden    = pkg.NewDomainErrorSimple("FORBIDDEN", "Insufficient permissions", http.StatusForbidden)
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (entities.AuthSession, error)
}

// Auth resolves the bearer token into an AuthSession and stores it in the
// request context. Requests without a valid token are rejected with 401.
func Auth(auth Authenticator) gin.HandlerFunc {
	log := logger.For("auth", "middleware")
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(errMissingToken.HTTPStatus, errMissingToken.ToHTTPError())
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.WithError(err).WithField("path", c.FullPath()).Debug("token rejected")
			c.AbortWithStatusJSON(errBadToken.HTTPStatus, errBadToken.ToHTTPError())
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireRole lets through only sessions holding one of roles. It must run
// after Auth.
func RequireRole(roles ...entities.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFrom(c)
		if !ok {
			c.AbortWithStatusJSON(errMissingToken.HTTPStatus, errMissingToken.ToHTTPError())
			return
		}
		for _, r := range roles {
			if session.Role == r {
				c.Next()
				return
			}
		}
		logger.For("auth", "middleware").WithField("user_id", session.UserID).WithField("role", session.Role).Warn("role rejected")
		c.AbortWithStatusJSON(errForbidden.HTTPStatus, errForbidden.ToHTTPError())
	}
}

// SessionFrom returns the session stored by Auth.
func SessionFrom(c *gin.Context) (entities.AuthSession, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return entities.AuthSession{}, false
	}
	s, ok := v.(entities.AuthSession)
	return s, ok
}

// WithSession stores s as the request session.
func WithSession(c *gin.Context, s entities.AuthSession) {
	c.Set(sessionKey, s)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
