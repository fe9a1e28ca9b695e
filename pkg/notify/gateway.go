package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/birdieplay/birdieplay-backend/internal/config"
	"github.com/birdieplay/birdieplay-backend/pkg/jwt"
	"golang.org/x/exp/slog"
)

// Gateway delivers winner notifications. Callers treat delivery as
// best-effort; the draw pipeline never blocks on a gateway failure.
type Gateway interface {
	NotifyWinner(ctx context.Context, email string, amount float64, drawLabel string) error
}

// HTTPGateway posts notifications to the external messaging service,
// authenticated with a short-lived signed bearer token.
type HTTPGateway struct {
	baseURL     string
	fromAddress string
	tokenSource *jwt.ServiceTokenSource
	httpClient  *http.Client
}

// MockGateway logs notifications instead of sending them. Used in
// development and on staging environments.
type MockGateway struct{}

// NewGateway picks the gateway implied by configuration
func NewGateway(cfg *config.Config) Gateway {
	if cfg.Notify.MockGateway {
		return &MockGateway{}
	}
	return &HTTPGateway{
		baseURL:     cfg.Notify.BaseURL,
		fromAddress: cfg.Notify.FromAddress,
		tokenSource: jwt.NewServiceTokenSource(cfg),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NotifyWinner posts a win notification to the messaging service
func (g *HTTPGateway) NotifyWinner(ctx context.Context, email string, amount float64, drawLabel string) error {
	token, err := g.tokenSource.Token()
	if err != nil {
		return fmt.Errorf("failed to get gateway token: %w", err)
	}

	requestBody := map[string]interface{}{
		"to":        email,
		"from":      g.fromAddress,
		"template":  "draw_winner",
		"amount":    amount,
		"drawLabel": drawLabel,
	}
	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/notifications", bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notification request failed with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// NotifyWinner logs the notification that would have been sent
func (g *MockGateway) NotifyWinner(_ context.Context, email string, amount float64, drawLabel string) error {
	slog.Info("[mock notify] winner notification", "to", email, "amount", amount, "draw", drawLabel)
	return nil
}
