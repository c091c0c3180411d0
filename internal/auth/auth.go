package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

// creates a JWT token for the user
func GenerateJWT(secret, userID, email, name string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET not set")
	}

	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()

	claims := Claims{
		UserID:       userID,
		Email:        email,
		UserMetadata: UserMetadata{Name: name},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// validates a JWT token and returns the claims
func ValidateJWT(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// verifies locally signed HS256 tokens
type JWTResolver struct {
	secret string
}

func NewJWTResolver(secret string) *JWTResolver {
	return &JWTResolver{secret: secret}
}

func (r *JWTResolver) Resolve(_ context.Context, token string) (*Principal, error) {
	claims, err := ValidateJWT(r.secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoPrincipal, err)
	}

	// sub is the identity provider's convention, user_id is what GenerateJWT used to emit
	userID := claims.Subject
	if userID == "" {
		userID = claims.UserID
	}

	if userID == "" {
		return nil, ErrNoPrincipal
	}

	return &Principal{
		UserID: userID,
		Email:  claims.Email,
		Name:   claims.UserMetadata.DisplayName(),
	}, nil
}

// reports whether the token was rejected rather than the lookup failing
func IsNoPrincipal(err error) bool {
	return errors.Is(err, ErrNoPrincipal)
}
