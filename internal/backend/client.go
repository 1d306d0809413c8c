package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"restocompras/internal"
	"restocompras/internal/config"
)

// Client talks to the catalog backend: authenticates, resolves product
// names to catalog IDs and publishes supplier items.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
	log        *slog.Logger

	mu    sync.Mutex
	token string
}

type loginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
}

type searchResponse struct {
	ProductID *int `json:"productId"`
}

func NewClient(cfg config.Config, log *slog.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.BackendTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.BackendRateLimitRPS),
		log:        log,
		token:      cfg.BackendToken,
	}
}

// Login obtains a bearer token with the configured credentials. When a
// static BACKEND_API_TOKEN is configured it is used as-is and no login
// request is made.
func (c *Client) Login(ctx context.Context) error {
	c.mu.Lock()
	if c.token != "" {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if err := c.cfg.Require("BACKEND_EMAIL", c.cfg.BackendEmail); err != nil {
		return err
	}
	if err := c.cfg.Require("BACKEND_PASSWORD", c.cfg.BackendPassword); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{
		"email":    c.cfg.BackendEmail,
		"password": c.cfg.BackendPassword,
	})
	if err != nil {
		return err
	}

	body, status, err := c.do(ctx, http.MethodPost, c.cfg.BackendLoginEndpoint, nil, payload, false)
	if err != nil {
		return fmt.Errorf("backend login: %w", err)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("backend login: status=%d body=%s", status, string(body))
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("backend login: decoding response: %w", err)
	}
	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}
	if token == "" {
		return fmt.Errorf("backend login: response carried no token")
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return nil
}

// SearchProductID asks the backend for the best catalog match of query.
// The second return is false whenever no usable ID came back, for any
// reason: transport error, non-2xx status or a null productId.
func (c *Client) SearchProductID(ctx context.Context, query string) (int, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, false
	}

	params := url.Values{}
	params.Set("query", query)

	body, status, err := c.do(ctx, http.MethodGet, c.cfg.BackendSearchEndpoint, params, nil, true)
	if err != nil {
		c.log.Debug("product search failed", "query", query, "error", err)
		return 0, false
	}
	if status < 200 || status >= 300 {
		c.log.Debug("product search rejected", "query", query, "status", status)
		return 0, false
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.log.Debug("product search decode failed", "query", query, "error", err)
		return 0, false
	}
	if resp.ProductID == nil {
		return 0, false
	}
	return *resp.ProductID, true
}

// PublishItem posts one resolved record to the backend item endpoint.
// It returns true only on a 2xx response.
func (c *Client) PublishItem(ctx context.Context, record internal.ProductRecord) bool {
	payload, err := json.Marshal(record)
	if err != nil {
		c.log.Error("item payload marshal failed", "name", record.Name, "error", err)
		return false
	}

	body, status, err := c.do(ctx, http.MethodPost, c.cfg.BackendItemEndpoint, nil, payload, true)
	if err != nil {
		c.log.Error("item publish failed", "name", record.Name, "error", err)
		return false
	}
	if status < 200 || status >= 300 {
		c.log.Error("item publish rejected", "name", record.Name, "status", status, "body", string(body))
		return false
	}
	return true
}

func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, payload []byte, auth bool) ([]byte, int, error) {
	base := strings.TrimRight(c.cfg.BackendBaseURL, "/")
	u, err := url.Parse(base + endpoint)
	if err != nil {
		return nil, 0, err
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	c.limiter.WaitTurn()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		c.mu.Lock()
		token := c.token
		c.mu.Unlock()
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
