package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abhijeet-rane/SamaySetu/internal/pkg/apperrors"
)

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey   string
	TokenExp    time.Duration
	TokenIssuer string
}

// JWTService issues and validates signed, time-bound bearer tokens.
// Tokens are stateless: there is no server-side revocation list, and a
// password or role change does not invalidate tokens issued earlier.
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
	}
}

// Claims defines the token payload: subject is the account email,
// plus a role claim.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed token for the given account email and role
func (s *JWTService) GenerateToken(email, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenExp)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SecretKey))
}

// parseClaims parses and verifies a token string
func (s *JWTService) parseClaims(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrTokenMalformed
		}
		return []byte(s.config.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrTokenMalformed
	}
	return claims, nil
}

// ExtractSubject returns the account email embedded in the token.
// The only failure modes are apperrors.ErrTokenMalformed (bad signature or
// structure) and apperrors.ErrTokenExpired.
func (s *JWTService) ExtractSubject(tokenString string) (string, error) {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", apperrors.ErrTokenMalformed
	}
	return claims.Subject, nil
}

// ExtractRole returns the role claim embedded in the token
func (s *JWTService) ExtractRole(tokenString string) (string, error) {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Role, nil
}

// ValidateToken reports whether the token verifies, is unexpired, and was
// issued for the expected account. Guards against a token for one account
// being replayed against another account's freshly loaded details.
func (s *JWTService) ValidateToken(tokenString, expectedEmail string) bool {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return false
	}
	return claims.Subject == expectedEmail
}

// GetTokenExpiry returns the configured validity window
func (s *JWTService) GetTokenExpiry() time.Duration {
	return s.config.TokenExp
}

// ExtractBearerToken extracts the token from an Authorization header value.
// Returns an empty string when the header is absent or not a bearer scheme.
func ExtractBearerToken(authHeader string) string {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}
