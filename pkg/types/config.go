// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that call remote APIs.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "insurance-rag/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ConversionBackend identifies the PDF-to-Markdown conversion tool.
type ConversionBackend string

const (
	// BackendDocling pipes the PDF through the docling container image.
	BackendDocling ConversionBackend = "docling"
	// BackendNative extracts the embedded text layer in pure Go.
	BackendNative ConversionBackend = "native"
)

// ConversionConfig holds settings for the parse stage.
type ConversionConfig struct {
	// Backend selects the conversion tool: docling or native.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// OutDir, when set, is where parse writes the Markdown file and its
	// YAML metadata sidecar in addition to the stdout JSON.
	OutDir string `json:"out_dir,omitempty" yaml:"out_dir,omitempty"`
}

// StoreConfig holds settings for the conversion cache.
type StoreConfig struct {
	// CacheDir is the directory holding the SQLite cache database.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// Disabled turns the cache off entirely; every parse reconverts.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

// EmbeddingConfig holds settings for the embedding API client.
type EmbeddingConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the embedding model identifier (e.g. "text-embedding-3-small").
	Model string `json:"model" yaml:"model"`

	// BaseURL is the root of the OpenAI-compatible API, including the
	// version path (e.g. "https://api.openai.com/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is the bearer token for the API. Leave it empty in config
	// files committed to version control; supply it via the environment or
	// the secrets directory instead.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// CacheSize is the LRU embedding cache capacity (default 1024).
	CacheSize int `json:"cache_size" yaml:"cache_size"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Embedding  EmbeddingConfig  `json:"embedding" yaml:"embedding"`
}
