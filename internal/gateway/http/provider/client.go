package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"dispatch/internal/entities"
)

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 2048
)

type Config struct {
	Provider entities.Provider
	BaseURL  string
	Timeout  time.Duration
	// Critical пути, ошибки на которых (POST) всегда уходят в алерт: создание заказа и оценки.
	Critical []string
}

// Client авторизованный HTTP клиент одного провайдера. Ретраев нет, кроме
// одного повтора после 401 с обновленным токеном.
type Client struct {
	provider   entities.Provider
	baseURL    string
	httpClient *http.Client
	tokens     tokenSource
	alerter    alerter
	limiter    limiter
	critical   map[string]struct{}
}

func NewClient(cfg Config, tokens tokenSource, alerter alerter, limiter limiter) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	critical := make(map[string]struct{}, len(cfg.Critical))
	for _, p := range cfg.Critical {
		critical[p] = struct{}{}
	}

	return &Client{
		provider:   cfg.Provider,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		alerter:    alerter,
		limiter:    limiter,
		critical:   critical,
	}
}

func (c *Client) Provider() entities.Provider {
	return c.provider
}

// Call выполняет запрос и возвращает тело ответа и статус. Статус >= 400
// возвращается вместе с *Error.
func (c *Client) Call(ctx context.Context, method, path string, body any) ([]byte, int, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("encode %s request body: %w", path, err)
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, &Error{Provider: c.provider, Method: method, Path: path, Err: err}
		}
	}

	start := time.Now()
	respBody, status, err := c.callWithRefresh(ctx, method, path, payload)
	ProviderRequestDuration.
		WithLabelValues(c.provider.String(), method, routeLabel(path), strconv.Itoa(status)).
		Observe(time.Since(start).Seconds())

	if err != nil {
		c.maybeAlert(ctx, method, path, status, err)
		return respBody, status, err
	}
	return respBody, status, nil
}

func (c *Client) callWithRefresh(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	token, err := c.tokens.GetToken(ctx, c.provider)
	if err != nil {
		return nil, 0, fmt.Errorf("%s access token: %w", c.provider, err)
	}

	respBody, status, err := c.do(ctx, method, path, payload, token)
	if err != nil || status != http.StatusUnauthorized {
		return respBody, status, err
	}

	ProviderUnauthorizedTotal.WithLabelValues(c.provider.String()).Inc()
	c.tokens.Invalidate(ctx, c.provider)

	token, err = c.tokens.Refresh(ctx, c.provider)
	if err != nil {
		return nil, status, fmt.Errorf("%s refresh token after 401: %w", c.provider, err)
	}

	return c.do(ctx, method, path, payload, token)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, token string) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, &Error{Provider: c.provider, Method: method, Path: path, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &Error{Provider: c.provider, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &Error{Provider: c.provider, Method: method, Path: path, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return respBody, resp.StatusCode, &Error{
			Provider:   c.provider,
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(respBody), maxErrorBody),
		}
	}

	return respBody, resp.StatusCode, nil
}

func (c *Client) maybeAlert(ctx context.Context, method, path string, status int, err error) {
	if c.alerter == nil {
		return
	}
	_, critical := c.critical[path]
	critical = critical && method == http.MethodPost
	if status < http.StatusInternalServerError && !critical {
		return
	}

	ProviderAlertsTotal.WithLabelValues(c.provider.String(), routeLabel(path)).Inc()
	c.alerter.Alert(ctx, fmt.Sprintf("[%s] %s %s failed: %v", c.provider, method, path, err))
}

// routeLabel заменяет идентификаторы в пути на :id, чтобы не раздувать метрики.
func routeLabel(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if s == "" {
			continue
		}
		if strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) }) >= 0 {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
