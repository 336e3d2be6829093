package middleware

import (
	"net/http"
	"strings"
	"time"

	"praenforce/internal/common"
	"praenforce/internal/models"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// tokenContextKey is where echo-jwt stores the parsed token
const tokenContextKey = "user"

// SessionClaims are the claims read from the bearer token
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTConfig verifies tokens with keyFunc when given, otherwise with the HMAC secret
func JWTConfig(secret string, keyFunc jwt.Keyfunc) echojwt.Config {
	cfg := echojwt.Config{
		ContextKey: tokenContextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(SessionClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}
	if keyFunc != nil {
		cfg.KeyFunc = keyFunc
	} else {
		cfg.SigningKey = []byte(secret)
	}
	return cfg
}

// NewJWKS fetches the identity provider's key set and keeps it refreshed in
// the background. Call EndBackground on shutdown.
func NewJWKS(url string, logger *zap.Logger) (*keyfunc.JWKS, error) {
	return keyfunc.Get(url, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Warn("jwks refresh failed", zap.String("url", url), zap.Error(err))
		},
	})
}

// SessionResolver maps a verified email to an officer id and role
type SessionResolver interface {
	OfficerIDFor(email string) (string, bool)
	IsAdmin(email string) bool
}

// SessionMiddleware turns the verified token into a models.Session on the
// request context. Emails that are neither admins nor rostered officers are
// rejected.
func SessionMiddleware(resolver SessionResolver, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get(tokenContextKey).(*jwt.Token)
			if !ok || token == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}
			claims, ok := token.Claims.(*SessionClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}

			email := strings.TrimSpace(claims.Email)
			if email == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing email in token")
			}

			session := models.Session{Email: email}
			officerID, isOfficer := resolver.OfficerIDFor(email)
			switch {
			case resolver.IsAdmin(email):
				session.Role = models.RoleAdmin
				session.OfficerID = officerID
			case isOfficer:
				session.Role = models.RoleOfficer
				session.OfficerID = officerID
			default:
				logger.Warn("rejected unknown user", zap.String("email", email))
				return echo.NewHTTPError(http.StatusForbidden, "User is not on the officer roster")
			}

			c.SetRequest(c.Request().WithContext(common.WithSession(c.Request().Context(), session)))
			return next(c)
		}
	}
}
