// Package qdrant is a minimal REST client to Qdrant, one Qdrant
// collection per corpus. Collections use cosine distance and are
// created on first write.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"docrag/internal/domain"
)

// pointNamespace derives deterministic UUID point ids from unit ids, so
// re-ingesting the same file overwrites the same points.
var pointNamespace = uuid.MustParse("7a1d2e04-9c1b-4c49-9f40-1f1f6d1b8b0a")

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Store talks to one Qdrant instance.
type Store struct {
	url    string
	apiKey string
	client *http.Client
}

func NewStore(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

// GetOrCreateCollection returns a handle without touching the server;
// the collection itself is created lazily on the first Add, when the
// vector dimension is known.
func (s *Store) GetOrCreateCollection(_ context.Context, name string) (domain.Collection, error) {
	return &collection{store: s, name: name}, nil
}

// GetCollection checks the collection exists and returns a handle.
// A 404 maps to ErrCollectionNotFound, distinct from connectivity
// failures.
func (s *Store) GetCollection(ctx context.Context, name string) (domain.Collection, error) {
	status, err := s.do(ctx, http.MethodGet, fmt.Sprintf("%s/collections/%s", s.url, name), nil, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrCollectionNotFound)
	}
	if status >= 300 {
		return nil, statusErr("GET collection", name, status)
	}
	return &collection{store: s, name: name, known: true}, nil
}

type collection struct {
	store *Store
	name  string
	known bool // collection confirmed to exist on the server
}

func (c *collection) Name() string { return c.name }

func (c *collection) Add(ctx context.Context, units []domain.EmbeddedUnit) error {
	if len(units) == 0 {
		return nil
	}
	if !c.known {
		if err := c.ensure(ctx, len(units[0].Vector)); err != nil {
			return err
		}
		c.known = true
	}
	points := make([]map[string]any, len(units))
	for i, u := range units {
		points[i] = map[string]any{
			"id":     uuid.NewSHA1(pointNamespace, []byte(u.ID)).String(),
			"vector": u.Vector,
			"payload": map[string]any{
				"unit_id":         u.ID,
				"text":            u.Unit.Text,
				"filename":        u.Metadata.Filename,
				"paragraph_index": u.Metadata.ParagraphIndex,
				"source":          u.Metadata.Source,
			},
		}
	}
	body := map[string]any{"points": points}
	status, err := c.store.do(ctx, http.MethodPut,
		fmt.Sprintf("%s/collections/%s/points?wait=true", c.store.url, c.name), body, nil)
	if err != nil {
		return err
	}
	if status >= 300 {
		return statusErr("upsert", c.name, status)
	}
	return nil
}

// ensure creates the collection if absent. Qdrant answers 200 for a PUT
// of an already-existing collection with the same schema.
func (c *collection) ensure(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("vector dimension %d: %w", dimension, domain.ErrInvalidConfig)
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	status, err := c.store.do(ctx, http.MethodPut,
		fmt.Sprintf("%s/collections/%s", c.store.url, c.name), body, nil)
	if err != nil {
		return err
	}
	// 409 means another writer created it first; that is fine.
	if status >= 300 && status != http.StatusConflict {
		return statusErr("create collection", c.name, status)
	}
	return nil
}

func (c *collection) Query(ctx context.Context, vector []float32, k int) ([]domain.RetrievalResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k %d: %w", k, domain.ErrInvalidConfig)
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	status, err := c.store.do(ctx, http.MethodPost,
		fmt.Sprintf("%s/collections/%s/points/search", c.store.url, c.name), req, &resp)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%q: %w", c.name, domain.ErrCollectionNotFound)
	}
	if status >= 300 {
		return nil, statusErr("search", c.name, status)
	}
	results := make([]domain.RetrievalResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		res := domain.RetrievalResult{Score: r.Score}
		if v, ok := r.Payload["text"].(string); ok {
			res.Text = v
		}
		if v, ok := r.Payload["filename"].(string); ok {
			res.Metadata.Filename = v
		}
		if v, ok := r.Payload["paragraph_index"].(float64); ok {
			res.Metadata.ParagraphIndex = int(v)
		}
		if v, ok := r.Payload["source"].(string); ok {
			res.Metadata.Source = v
		}
		results = append(results, res)
	}
	return results, nil
}

func (c *collection) Count(ctx context.Context) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	status, err := c.store.do(ctx, http.MethodPost,
		fmt.Sprintf("%s/collections/%s/points/count", c.store.url, c.name),
		map[string]any{"exact": true}, &resp)
	if err != nil {
		return 0, err
	}
	if status == http.StatusNotFound {
		return 0, fmt.Errorf("%q: %w", c.name, domain.ErrCollectionNotFound)
	}
	if status >= 300 {
		return 0, statusErr("count", c.name, status)
	}
	return resp.Result.Count, nil
}

// do sends one JSON request. Transport failures map to
// ErrCollaboratorUnavailable; HTTP status handling is the caller's.
func (s *Store) do(ctx context.Context, method, url string, body, out any) (int, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("qdrant: marshal request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("qdrant: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("qdrant: %v: %w", err, domain.ErrCollaboratorUnavailable)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("qdrant: decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func statusErr(op, name string, status int) error {
	err := fmt.Errorf("qdrant: %s %q: status %d", op, name, status)
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden, status >= 500:
		return fmt.Errorf("%v: %w", err, domain.ErrCollaboratorUnavailable)
	default:
		return err
	}
}
