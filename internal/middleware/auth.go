package middleware

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/lilpaf/Super-Barber-sub000/internal/models"
)

const (
	ContextUserID    = "userID"
	ContextUserRoles = "userRoles"

	TokenTTL = 24 * time.Hour
)

// SessionStore reports the session version a token must carry. 0 means the
// account is gone.
type SessionStore interface {
	SessionVersion(ctx context.Context, userID uint) (int, error)
}

type Claims struct {
	Roles   []string `json:"roles"`
	Version int      `json:"ver"`
	jwt.RegisteredClaims
}

// IssueToken signs a token carrying the roles the user holds right now.
func IssueToken(secret string, user *models.User, roles []models.Role, now time.Time) (string, error) {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}

	claims := Claims{
		Roles:   names,
		Version: user.SessionVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parseToken(secret, header string) (*Claims, uint, string) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, 0, "invalid_authorization_header"
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(parts[1], &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, 0, "invalid_token"
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, 0, "invalid_token_payload"
	}

	return &claims, uint(id), ""
}

// AuthMiddleware requires a valid bearer token whose session version is
// still current. Tokens minted before a role change are rejected with
// session_expired so the client signs in again and picks up the new roles.
func AuthMiddleware(secret string, sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		claims, userID, code := parseToken(secret, header)
		if code != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code})
			return
		}

		current, err := sessions.SessionVersion(c.Request.Context(), userID)
		if err != nil {
			zap.L().Error("session lookup failed", zap.Uint("user_id", userID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "system_fault"})
			return
		}
		if current == 0 || current != claims.Version {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session_expired"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserRoles, claims.Roles)

		c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a usable token is sent
// and lets anonymous requests through otherwise.
func OptionalAuthMiddleware(secret string, sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		claims, userID, code := parseToken(secret, header)
		if code == "" {
			current, err := sessions.SessionVersion(c.Request.Context(), userID)
			if err == nil && current != 0 && current == claims.Version {
				c.Set(ContextUserID, userID)
				c.Set(ContextUserRoles, claims.Roles)
			}
		}

		c.Next()
	}
}

// UserID is 0 for anonymous requests.
func UserID(c *gin.Context) uint {
	id, _ := c.Get(ContextUserID)
	v, _ := id.(uint)
	return v
}

func HasRole(c *gin.Context, role models.Role) bool {
	v, _ := c.Get(ContextUserRoles)
	roles, _ := v.([]string)
	return slices.Contains(roles, string(role))
}

func IsAdmin(c *gin.Context) bool {
	return HasRole(c, models.RoleAdministrator)
}
