// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embedding calls an OpenAI-compatible embeddings endpoint. The
// remote service is a black box: the client sends a model name and input
// text and gets a numeric vector back. Repeated inputs are served from an
// in-process LRU cache.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/qd-maker/insurance-rag/internal/httputil"
	"github.com/qd-maker/insurance-rag/pkg/types"
)

const (
	defaultModel     = "text-embedding-3-small"
	defaultBaseURL   = "https://api.openai.com/v1"
	defaultCacheSize = 1024
	defaultTimeout   = 60 * time.Second
)

// Client calls the embeddings endpoint of an OpenAI-compatible API.
type Client struct {
	cfg    types.EmbeddingConfig
	client *http.Client
	cache  *lru.Cache[string, []float32]
}

// NewClient creates an embedding client from cfg, filling in defaults for
// model, base URL, cache size, and timeout. The API key is required.
func NewClient(cfg types.EmbeddingConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("embedding API key not configured")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	cache, err := lru.New[string, []float32](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating embedding cache: %w", err)
	}

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cache:  cache,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.cfg.Model }

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

// Embed returns the embedding vector for text, consulting the cache first.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := c.cache.Get(text); ok {
		return cached, nil
	}

	vec, err := c.callAPI(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(text, vec)
	return vec, nil
}

// embeddingRequest is the /embeddings request body.
type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// embeddingResponse is the subset of the /embeddings response the client
// reads.
type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) callAPI(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embeddingRequest{Model: c.cfg.Model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("embeddings API request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var er embeddingResponse
	if err := json.Unmarshal(data, &er); err != nil {
		return nil, fmt.Errorf("parsing embeddings response (HTTP %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if er.Error != nil && er.Error.Message != "" {
			return nil, fmt.Errorf("embeddings API returned HTTP %d: %s", resp.StatusCode, er.Error.Message)
		}
		return nil, fmt.Errorf("embeddings API returned HTTP %d", resp.StatusCode)
	}

	if len(er.Data) == 0 || len(er.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embeddings API returned no vector")
	}
	return er.Data[0].Embedding, nil
}
