// Package surreal реализует клиент удалённого key-value хранилища премиум-статусов
// поверх HTTP API, совместимого с SurrealDB: POST {endpoint}/sql с bearer-токеном
// и заголовками-селекторами NS/DB, тело — сырая строка запроса, ответ — JSON-массив
// результатов по каждому стейтменту.
package surreal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/config"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/models"
)

// ErrNotConfigured возвращается, когда не задан endpoint, namespace или токен.
var ErrNotConfigured = errors.New("surreal client is not configured")

const recordsTable = "premium_users"

// Client инкапсулирует доступ к хранилищу статусов.
type Client struct {
	endpoint   string
	namespace  string
	database   string
	token      string
	httpClient *http.Client
}

// NewClient создаёт клиент хранилища из конфигурации.
func NewClient(cfg config.SurrealDB) *Client {
	return &Client{
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		namespace:  cfg.Namespace,
		database:   cfg.Database,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// NormalizeEmail приводит email к каноническому ключу: trim + lowercase.
// Все чтения и записи хранилища проходят через нормализацию,
// поэтому поиск нечувствителен к регистру.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// escapeString экранирует строку для подстановки в SurrealQL-литерал.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// statementResult — результат одного стейтмента в ответе /sql.
type statementResult struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
}

// query выполняет сырой SurrealQL-запрос и возвращает результаты по стейтментам.
func (c *Client) query(ctx context.Context, q string) ([]statementResult, error) {
	const op = "surreal.query"

	if c.endpoint == "" || c.namespace == "" || c.token == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/sql", strings.NewReader(q))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("NS", c.namespace)
	req.Header.Set("DB", c.database)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s: unexpected status %s: %s", op, resp.Status, string(body))
	}

	var results []statementResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return results, nil
}

// GetPremiumStatus возвращает премиум-статус по email.
// Отсутствие записи — это подтверждённый StatusDenied; любая ошибка
// (конфигурация, сеть, некорректный ответ) — StatusUnknown вместе с ошибкой,
// чтобы вызывающая сторона могла различить "нет премиума" и "не удалось проверить".
func (c *Client) GetPremiumStatus(ctx context.Context, email string) (models.PremiumStatus, error) {
	const op = "surreal.GetPremiumStatus"

	key := escapeString(NormalizeEmail(email))
	q := fmt.Sprintf(`SELECT email, is_premium, stripe_session_id, created_at, updated_at FROM %s WHERE email = "%s";`, recordsTable, key)

	results, err := c.query(ctx, q)
	if err != nil {
		return models.StatusUnknown, fmt.Errorf("%s: %w", op, err)
	}
	if len(results) == 0 || results[0].Status != "OK" {
		return models.StatusUnknown, fmt.Errorf("%s: statement failed", op)
	}

	var rows []models.PremiumRecord
	if err := json.Unmarshal(results[0].Result, &rows); err != nil {
		return models.StatusUnknown, fmt.Errorf("%s: %w", op, err)
	}
	if len(rows) == 0 || !rows[0].IsPremium {
		return models.StatusDenied, nil
	}
	return models.StatusGranted, nil
}

// SetPremiumStatus перезаписывает запись премиум-статуса целиком:
// сначала удаляет существующую запись по email, затем создаёт новую.
// Запись не верифицируется обратным чтением.
func (c *Client) SetPremiumStatus(ctx context.Context, email string, isPremium bool, sessionID string) error {
	const op = "surreal.SetPremiumStatus"

	key := escapeString(NormalizeEmail(email))
	q := fmt.Sprintf(
		`DELETE %[1]s WHERE email = "%[2]s";`+
			` CREATE %[1]s SET email = "%[2]s", is_premium = %[3]t, stripe_session_id = "%[4]s",`+
			` created_at = time::now(), updated_at = time::now();`,
		recordsTable, key, isPremium, escapeString(sessionID))

	results, err := c.query(ctx, q)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(results) < 2 {
		return fmt.Errorf("%s: expected 2 statement results, got %d", op, len(results))
	}
	for _, res := range results {
		if res.Status != "OK" {
			return fmt.Errorf("%s: statement failed with status %q", op, res.Status)
		}
	}
	return nil
}
