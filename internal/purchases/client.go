// Package purchases реализует REST-клиент SDK покупок (RevenueCat-совместимый API).
// Клиент отдаёт состояние подписчика по app_user_id; ключ API выбирается
// по платформе сборки (ios/android/test).
package purchases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/config"
)

// ErrSubscriberNotFound возвращается для неизвестного app_user_id.
var ErrSubscriberNotFound = errors.New("subscriber not found")

// Client — HTTP-клиент API покупок.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient создаёт клиент из конфигурации.
func NewClient(cfg config.Purchases) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.ActiveKey(),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// GetSubscriber запрашивает актуальное состояние подписчика.
func (c *Client) GetSubscriber(ctx context.Context, appUserID string) (*Subscriber, error) {
	const op = "purchases.GetSubscriber"

	endpoint := fmt.Sprintf("%s/v1/subscribers/%s", c.baseURL, url.PathEscape(appUserID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", op, ErrSubscriberNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var payload subscriberResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &payload.Subscriber, nil
}
