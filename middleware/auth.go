package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bistroboard/models"
	"bistroboard/token"
)

// Context keys set by AuthRequired
const (
	ctxUser   = "currentUser"
	ctxClaims = "tokenClaims"
)

// AuthRequired validates the bearer token, loads the subject account and
// enforces activation. Impersonation grants and admin accounts bypass the
// activation check; everything else on a deactivated account is rejected.
func AuthRequired(db *gorm.DB, tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			c.Abort()
			return
		}

		claims, err := tokens.Validate(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, token.ErrExpired) {
				msg = "Token expired"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			c.Abort()
			return
		}

		var user models.User
		if err := db.Where("username = ?", claims.Username()).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		if !user.IsActive && !claims.IsImpersonating && user.Role != models.RoleAdmin {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User account is deactivated"})
			c.Abort()
			return
		}

		c.Set(ctxUser, &user)
		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not found in context"})
			c.Abort()
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + rolesString(roles),
		})
		c.Abort()
	}
}

func rolesString(roles []models.UserRole) string {
	s := ""
	for i, r := range roles {
		if i > 0 {
			s += ", "
		}
		s += string(r)
	}
	return s
}

// CurrentUser returns the authenticated account, nil outside AuthRequired.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUser); ok {
		return v.(*models.User)
	}
	return nil
}

// CurrentClaims returns the validated token claims.
func CurrentClaims(c *gin.Context) *token.Claims {
	if v, ok := c.Get(ctxClaims); ok {
		return v.(*token.Claims)
	}
	return nil
}

// ActorID returns the account an action is attributed to. Under an
// impersonation grant this is the operating admin, not the subject.
func ActorID(c *gin.Context) uint {
	claims := CurrentClaims(c)
	if claims != nil && claims.IsImpersonating {
		return claims.ImpersonatorID
	}
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}
