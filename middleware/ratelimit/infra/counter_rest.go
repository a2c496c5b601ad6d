package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"acrate-badge/middleware/ratelimit/domain"
)

// RESTCounter implementa domain.WindowCounter sobre a API REST de um KV
// compatível com Redis (Upstash / Vercel KV).
//
// Cada Incr é um único POST em `{endpoint}/pipeline` com o mesmo script Lua
// do RedisCounter, autenticado por bearer token.
type RESTCounter struct {
	client   *http.Client
	endpoint string
	token    string
}

type RESTCounterOption func(*RESTCounter)

func WithHTTPClient(c *http.Client) RESTCounterOption {
	return func(r *RESTCounter) { r.client = c }
}

func NewRESTCounter(endpoint, token string, opts ...RESTCounterOption) (*RESTCounter, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, errors.New("rest counter: endpoint is required")
	}
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("rest counter: token is required")
	}
	c := &RESTCounter{
		client:   &http.Client{Timeout: 5 * time.Second},
		endpoint: endpoint,
		token:    token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type pipelineItem struct {
	Result *int64  `json:"result"`
	Error  *string `json:"error"`
}

func (c *RESTCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	payload, err := json.Marshal([][]string{{
		"EVAL",
		windowIncrScript,
		"1",
		key,
		strconv.FormatInt(ttlSeconds(ttl), 10),
	}})
	if err != nil {
		return 0, &domain.LimiterError{Reason: "encode pipeline", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/pipeline", bytes.NewReader(payload))
	if err != nil {
		return 0, &domain.LimiterError{Reason: "build request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, &domain.LimiterError{Reason: "call kv rest api", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return 0, &domain.LimiterError{Reason: "read kv rest response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &domain.LimiterError{
			Reason: "kv rest error response",
			Err:    fmt.Errorf("%d %s: %s", resp.StatusCode, http.StatusText(resp.StatusCode), strings.TrimSpace(string(body))),
		}
	}

	var items []pipelineItem
	if err := json.Unmarshal(body, &items); err != nil {
		return 0, &domain.LimiterError{Reason: "decode kv rest response", Err: err}
	}
	if len(items) == 0 {
		return 0, &domain.LimiterError{Reason: "invalid kv rest response format"}
	}
	first := items[0]
	switch {
	case first.Error != nil:
		return 0, &domain.LimiterError{Reason: "pipeline error", Err: errors.New(*first.Error)}
	case first.Result != nil:
		return *first.Result, nil
	default:
		return 0, &domain.LimiterError{Reason: "invalid kv rest response format"}
	}
}
