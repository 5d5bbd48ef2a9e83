package utils

import (
	"errors"
	"log/slog"
	"time"

	"github.com/foster034/pal-content-api/internal/transfer"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateStateToken signs the franchise id into an opaque OAuth state value.
func GenerateStateToken(secretKey, franchiseID string, ttl time.Duration) (string, error) {
	claims := transfer.StateClaims{
		FranchiseID: franchiseID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "pal-content-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secretKey))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return signed, nil
}

// ParseStateToken resolves a callback state back to its franchise id.
func ParseStateToken(secretKey, tokenString string) (*transfer.StateClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &transfer.StateClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	claims, ok := token.Claims.(*transfer.StateClaims)
	if !ok || !token.Valid || claims.FranchiseID == "" {
		return nil, errors.New("invalid state token")
	}

	return claims, nil
}
