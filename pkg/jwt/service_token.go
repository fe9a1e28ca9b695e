package jwt

import (
	"fmt"
	"time"

	"github.com/birdieplay/birdieplay-backend/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// ServiceTokenSource signs short-lived bearer tokens for service-to-service
// calls to the notification gateway.
type ServiceTokenSource struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewServiceTokenSource creates a token source from the notify configuration
func NewServiceTokenSource(cfg *config.Config) *ServiceTokenSource {
	return &ServiceTokenSource{
		secret: []byte(cfg.Notify.APIKey),
		issuer: "birdieplay-backend",
		ttl:    15 * time.Minute,
	}
}

// Token returns a freshly signed bearer token
func (s *ServiceTokenSource) Token() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign service token: %w", err)
	}
	return signed, nil
}
