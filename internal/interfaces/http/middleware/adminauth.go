package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/merdocx/veilbot/internal/shared/logger"
	"github.com/merdocx/veilbot/internal/shared/utils"
)

const adminSubjectKey = "admin_subject"

// AdminAuthMiddleware guards the admin API with HS256 bearer tokens.
type AdminAuthMiddleware struct {
	secret []byte
	logger logger.Interface
}

func NewAdminAuthMiddleware(secret string, logger logger.Interface) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{
		secret: []byte(secret),
		logger: logger,
	}
}

// RequireAuth validates the Authorization header and stores the token
// subject in the gin context.
func (m *AdminAuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.ErrorResponse(c, http.StatusUnauthorized, "authorization required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			m.logger.Warnw("admin token rejected", "client_ip", c.ClientIP(), "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set(adminSubjectKey, claims.Subject)
		c.Next()
	}
}

// IssueAdminToken mints a session token for an authenticated admin.
func IssueAdminToken(secret, subject string, maxAge time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(maxAge)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
