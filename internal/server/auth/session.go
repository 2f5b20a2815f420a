package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/landchain/landchain/internal/common"
	"github.com/landchain/landchain/internal/server/models"
)

// SessionClaims is the signed payload of the session cookie.
type SessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
	UniqueID string `json:"uid"`
}

// SessionCodec signs and verifies session tokens with HS256.
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionCodec(secret []byte, ttl time.Duration) *SessionCodec {
	return &SessionCodec{secret: secret, ttl: ttl, now: time.Now}
}

func (c *SessionCodec) TTL() time.Duration { return c.ttl }

// Issue returns a signed token for s.
func (c *SessionCodec) Issue(s *models.Session) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UniqueID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Username: s.Username,
		Role:     string(s.Role),
		UniqueID: s.UniqueID,
	})

	return token.SignedString(c.secret)
}

// Parse verifies token and returns the session it carries. Expired tokens
// yield common.ErrTokenExpired, anything else unusable common.ErrInvalidToken.
func (c *SessionCodec) Parse(token string) (*models.Session, error) {
	claims := &SessionClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, common.ErrInvalidToken
	}

	role, err := models.ParseRole(claims.Role)
	if err != nil || claims.UniqueID == "" {
		return nil, common.ErrInvalidToken
	}

	return &models.Session{Username: claims.Username, Role: role, UniqueID: claims.UniqueID}, nil
}
