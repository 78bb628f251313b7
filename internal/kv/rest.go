package kv

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// RESTStore talks to an Upstash-compatible Redis REST endpoint. Commands map
// onto path segments (`/incr/{key}`, `/expire/{key}/{seconds}`) and responses
// arrive as `{"result": ...}`.
type RESTStore struct {
	client *resty.Client
}

type restResult struct {
	Result any    `json:"result"`
	Error  string `json:"error"`
}

// NewRESTStore builds a client for the given endpoint and bearer token.
func NewRESTStore(baseURL, token string) *RESTStore {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(token).
		SetTimeout(5 * time.Second)
	return &RESTStore{client: client}
}

func (s *RESTStore) command(ctx context.Context, segments ...string) (*restResult, error) {
	escaped := make([]string, len(segments))
	for i, seg := range segments {
		escaped[i] = url.PathEscape(seg)
	}

	var result restResult
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/" + strings.Join(escaped, "/"))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("kv rest: %s returned status %d", segments[0], resp.StatusCode())
	}
	if result.Error != "" {
		return nil, fmt.Errorf("kv rest: %s: %s", segments[0], result.Error)
	}
	return &result, nil
}

func (s *RESTStore) Get(ctx context.Context, key string) (int64, bool, error) {
	result, err := s.command(ctx, "get", key)
	if err != nil {
		return 0, false, err
	}
	if result.Result == nil {
		return 0, false, nil
	}
	val, err := toInt64(result.Result)
	if err != nil {
		return 0, false, fmt.Errorf("kv rest: get %q: %w", key, err)
	}
	return val, true, nil
}

func (s *RESTStore) Incr(ctx context.Context, key string) (int64, error) {
	result, err := s.command(ctx, "incr", key)
	if err != nil {
		return 0, err
	}
	val, err := toInt64(result.Result)
	if err != nil {
		return 0, fmt.Errorf("kv rest: incr %q: %w", key, err)
	}
	return val, nil
}

func (s *RESTStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	seconds := int64(ttl / time.Second)
	_, err := s.command(ctx, "expire", key, strconv.FormatInt(seconds, 10))
	return err
}

// toInt64 copes with the REST protocol returning numbers either as JSON
// numbers or as strings, depending on the command.
func toInt64(v any) (int64, error) {
	switch value := v.(type) {
	case float64:
		return int64(value), nil
	case string:
		return strconv.ParseInt(value, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected result type %T", v)
	}
}
