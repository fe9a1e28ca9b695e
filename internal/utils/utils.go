package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"math"
	"time"

	"github.com/birdieplay/birdieplay-backend/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateJWT generates a signed token carrying the user's id and role
func GenerateJWT(userID string, role string, cfg *config.Config) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = userID
	claims["role"] = role
	claims["exp"] = time.Now().Add(time.Second * time.Duration(cfg.JWT.ExpiresIn)).Unix()

	tokenString, err := token.SignedString([]byte(cfg.JWT.Secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateJWT validates a token and returns its claims
func ValidateJWT(tokenString string, cfg *config.Config) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWT.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// GenerateRandomString generates a random string of the specified length.
// Used for payment references on settlement writes.
func GenerateRandomString(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b)[:length], nil
}

// Round2 rounds a monetary amount to two decimal places. Prize splits and
// donation amounts are always stored rounded so wallet credits reconcile.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
