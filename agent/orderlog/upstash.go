package orderlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	statex "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/state"
)

const (
	defaultListKey       = "restaurant:orders"
	maxResponseSizeBytes = 2 << 20
)

type UpstashConfig struct {
	URL     string        `envconfig:"URL" split_words:"true" required:"true"`
	Token   string        `envconfig:"TOKEN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
	ListKey string        `envconfig:"LIST_KEY" split_words:"true" default:"restaurant:orders"`
}

// UpstashOption customizes UpstashStore.
type UpstashOption func(*UpstashStore)

func WithHTTPClient(client *http.Client) UpstashOption {
	return func(s *UpstashStore) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// UpstashStore pushes order records onto a Redis list via the Upstash REST API.
type UpstashStore struct {
	baseURL    string
	token      string
	listKey    string
	httpClient *http.Client
}

type redisRESTResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func NewUpstashStore(cfg UpstashConfig, opts ...UpstashOption) (*UpstashStore, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	listKey := strings.TrimSpace(cfg.ListKey)
	if listKey == "" {
		listKey = defaultListKey
	}

	store := &UpstashStore{
		baseURL:    baseURL,
		token:      token,
		listKey:    listKey,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store, nil
}

func (s *UpstashStore) Append(ctx context.Context, order statex.Order) error {
	payload, err := NewRecord(order).JSON()
	if err != nil {
		return fmt.Errorf("marshal order record: %w", err)
	}
	if _, err := s.exec(ctx, []any{"RPUSH", s.listKey, string(payload)}); err != nil {
		return fmt.Errorf("push order %s: %w", order.ID, err)
	}
	return nil
}

func (s *UpstashStore) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

func (s *UpstashStore) exec(ctx context.Context, command []any) (*redisRESTResponse, error) {
	body, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("marshal redis command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	if parsed.Error != "" {
		return nil, errors.New(parsed.Error)
	}
	return &parsed, nil
}
