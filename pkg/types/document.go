// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures and configuration for the
// insurance-rag document tooling.
package types

import "time"

// Document is the result of converting a PDF to Markdown.
type Document struct {
	// Markdown is the converted, whitespace-normalized document text.
	Markdown string `json:"markdown" yaml:"markdown"`

	// PageCount is the number of pages in the source PDF. Zero when the
	// backend cannot determine it.
	PageCount int `json:"page_count" yaml:"page_count"`
}

// DocumentMeta describes a converted document; written as the YAML sidecar
// next to Markdown output and stored in the conversion cache.
type DocumentMeta struct {
	// ID is the SHA-256 hex digest of the source PDF bytes.
	ID string `json:"id" yaml:"id"`

	// SourcePath is the path of the source PDF at conversion time.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// PageCount is the number of pages in the source PDF.
	PageCount int `json:"page_count" yaml:"page_count"`

	// Backend is the conversion backend that produced the Markdown.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// ConvertedAt is the UTC conversion timestamp.
	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`
}
