// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements PDF-to-Markdown conversion with pluggable
// backends. Converted Markdown is passed through cjktext.Normalize before it
// reaches any caller, so downstream consumers never see raw extraction
// whitespace.
package convert

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/qd-maker/insurance-rag/internal/cjktext"
	"github.com/qd-maker/insurance-rag/pkg/types"
)

// Converter transforms a PDF file into Markdown text. Backends (docling,
// native) implement this interface.
type Converter interface {
	// Convert reads a PDF at pdfPath and returns the raw Markdown content.
	Convert(pdfPath string) (string, error)
}

// ValidatePath checks that pdfPath names an existing regular file with a
// .pdf extension. The error messages for a missing file and a wrong
// extension are stable; callers surface them verbatim in the JSON error
// contract. Callers that consult the conversion cache must validate before
// the lookup, not after: a cached document must never mask a path that no
// longer satisfies the contract.
func ValidatePath(pdfPath string) error {
	info, err := os.Stat(pdfPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", pdfPath)
		}
		return fmt.Errorf("checking %s: %w", pdfPath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("not a file: %s", pdfPath)
	}
	if ext := strings.ToLower(filepath.Ext(pdfPath)); ext != ".pdf" {
		return fmt.Errorf("unsupported file type: %s", ext)
	}
	return nil
}

// ParsePDF validates the input path, converts it with c, and returns the
// whitespace-normalized document.
func ParsePDF(c Converter, pdfPath string) (types.Document, error) {
	if err := ValidatePath(pdfPath); err != nil {
		return types.Document{}, err
	}

	markdown, err := c.Convert(pdfPath)
	if err != nil {
		return types.Document{}, fmt.Errorf("conversion failed: %w", err)
	}

	// Page count comes from the PDF itself rather than the backend; a
	// malformed cross-reference table degrades to 0 instead of failing
	// an otherwise successful conversion.
	pages, err := PageCount(pdfPath)
	if err != nil {
		pages = 0
	}

	return types.Document{
		Markdown:  cjktext.Normalize(markdown),
		PageCount: pages,
	}, nil
}

// DocumentID returns the SHA-256 hex digest of the file at path. It is the
// cache key and sidecar ID for a converted document.
func DocumentID(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// WriteArtifacts writes the converted Markdown and a YAML metadata sidecar
// into outDir, named after the source PDF. Returns the path of the Markdown
// file.
func WriteArtifacts(doc types.Document, meta types.DocumentMeta, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(meta.SourcePath), filepath.Ext(meta.SourcePath))
	mdPath := filepath.Join(outDir, base+".md")
	metaPath := filepath.Join(outDir, base+".yaml")

	if err := os.WriteFile(mdPath, []byte(doc.Markdown), 0o644); err != nil {
		return "", fmt.Errorf("writing markdown: %w", err)
	}

	data, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshaling metadata: %w", err)
	}
	if err := os.WriteFile(metaPath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing metadata: %w", err)
	}

	return mdPath, nil
}

// NewMeta builds the sidecar record for a conversion that just completed.
func NewMeta(id, sourcePath string, doc types.Document, backend types.ConversionBackend) types.DocumentMeta {
	return types.DocumentMeta{
		ID:          id,
		SourcePath:  sourcePath,
		PageCount:   doc.PageCount,
		Backend:     backend,
		ConvertedAt: time.Now().UTC(),
	}
}
