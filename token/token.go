// Package token issues and validates the platform's bearer credentials.
// Tokens are signed (HS256); expiry is checked on every validation.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bistroboard/models"
)

var (
	ErrExpired   = errors.New("token expired")
	ErrMalformed = errors.New("malformed token")
)

// ImpersonationTTL is the fixed lifetime of an admin impersonation grant.
const ImpersonationTTL = 5 * time.Minute

// Claims carried by every session token. Impersonation grants additionally
// record the operator so actions stay attributable to the original admin.
type Claims struct {
	UserID          uint            `json:"user_id"`
	Role            models.UserRole `json:"role"`
	Name            string          `json:"name"`
	IsImpersonating bool            `json:"is_impersonating,omitempty"`
	ImpersonatorID  uint            `json:"impersonator_id,omitempty"`
	jwt.RegisteredClaims
}

// Username returns the subject username.
func (c *Claims) Username() string { return c.Subject }

// Manager signs and validates session tokens.
type Manager struct {
	secret    []byte
	accessTTL time.Duration
}

func NewManager(secret string, accessTTL time.Duration) *Manager {
	return &Manager{secret: []byte(secret), accessTTL: accessTTL}
}

// Issue creates a signed session token for a user.
func (m *Manager) Issue(user *models.User) (string, error) {
	return m.issue(user, m.accessTTL, false, 0)
}

// IssueImpersonation creates a short-lived token carrying the target's
// identity flagged as an impersonation grant by the given operator.
func (m *Manager) IssueImpersonation(operatorID uint, target *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(ImpersonationTTL)
	tok, err := m.issue(target, ImpersonationTTL, true, operatorID)
	return tok, expiresAt, err
}

func (m *Manager) issue(user *models.User, ttl time.Duration, impersonating bool, operatorID uint) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:          user.ID,
		Role:            user.Role,
		Name:            user.Name,
		IsImpersonating: impersonating,
		ImpersonatorID:  operatorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secret)
}

// Validate parses and verifies a token, returning its claims.
func (m *Manager) Validate(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrMalformed
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}
	if !tok.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}
