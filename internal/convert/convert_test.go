// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/qd-maker/insurance-rag/pkg/types"
)

// fakeConverter implements Converter for testing. It returns canned Markdown
// or an error, depending on configuration.
type fakeConverter struct {
	output string
	err    error
}

func (f *fakeConverter) Convert(pdfPath string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

// setupPDF creates a temporary file with a .pdf extension and returns its path.
func setupPDF(t *testing.T) string {
	t.Helper()
	pdfPath := filepath.Join(t.TempDir(), "policy.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("fake pdf"), 0o644))
	return pdfPath
}

func TestParsePDF(t *testing.T) {
	t.Run("successful conversion normalizes whitespace", func(t *testing.T) {
		pdfPath := setupPDF(t)
		c := &fakeConverter{output: "# 保 险 条 款\n\n第 一 条  English  text"}

		doc, err := ParsePDF(c, pdfPath)
		require.NoError(t, err)
		assert.Equal(t, "# 保险条款\n\n第一条 English text", doc.Markdown)
		// The fake file is not a real PDF, so page counting degrades to 0.
		assert.Equal(t, 0, doc.PageCount)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ParsePDF(&fakeConverter{}, filepath.Join(t.TempDir(), "nope.pdf"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file does not exist")
	})

	t.Run("wrong extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.docx")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		_, err := ParsePDF(&fakeConverter{}, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported file type: .docx")
	})

	t.Run("directory input", func(t *testing.T) {
		_, err := ParsePDF(&fakeConverter{}, t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a file")
	})

	t.Run("converter failure wrapped", func(t *testing.T) {
		pdfPath := setupPDF(t)
		c := &fakeConverter{err: errors.New("boom")}

		_, err := ParsePDF(c, pdfPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "conversion failed")
	})

	t.Run("uppercase extension accepted", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "POLICY.PDF")
		require.NoError(t, os.WriteFile(path, []byte("fake pdf"), 0o644))

		_, err := ParsePDF(&fakeConverter{output: "ok"}, path)
		require.NoError(t, err)
	})
}

func TestDocumentID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	id, err := DocumentID(path)
	require.NoError(t, err)
	// sha256("hello")
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", id)

	id2, err := DocumentID(path)
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	_, err = DocumentID(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestWriteArtifacts(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	doc := types.Document{Markdown: "# 标题\n\n正文", PageCount: 3}
	meta := NewMeta("abc123", "/data/raw/contract.pdf", doc, types.BackendNative)

	mdPath, err := WriteArtifacts(doc, meta, outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "contract.md"), mdPath)

	content, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Equal(t, doc.Markdown, string(content))

	sidecar, err := os.ReadFile(filepath.Join(outDir, "contract.yaml"))
	require.NoError(t, err)

	var got types.DocumentMeta
	require.NoError(t, yaml.Unmarshal(sidecar, &got))
	assert.Equal(t, "abc123", got.ID)
	assert.Equal(t, "/data/raw/contract.pdf", got.SourcePath)
	assert.Equal(t, 3, got.PageCount)
	assert.Equal(t, types.BackendNative, got.Backend)
	assert.False(t, got.ConvertedAt.IsZero())
}
