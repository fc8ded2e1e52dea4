// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"
	"os"

	"github.com/qd-maker/insurance-rag/internal/container"
)

const imageDocling = "docling:latest"

// doclingArgs converts a PDF on stdin to Markdown on stdout. OCR and table
// structure recognition stay enabled so scanned policy documents convert too.
var doclingArgs = []string{"--from", "pdf", "--to", "md", "--ocr", "--table-mode", "accurate", "-"}

// DoclingConverter converts PDFs by piping them through the docling container
// image. It depends on a container.Runtime (docker or podman) injected at
// construction time.
type DoclingConverter struct {
	runtime container.Runtime
}

// NewDoclingConverter creates a converter that runs the docling image on the
// given container runtime. It verifies the image exists locally before
// returning.
func NewDoclingConverter(rt container.Runtime) (*DoclingConverter, error) {
	if err := rt.ImageExists(imageDocling); err != nil {
		return nil, fmt.Errorf("docling image not available in %s: %w", rt.Name(), err)
	}
	return &DoclingConverter{runtime: rt}, nil
}

// Convert reads the PDF at pdfPath, pipes it through the docling container,
// and returns the resulting Markdown text.
func (d *DoclingConverter) Convert(pdfPath string) (string, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := d.runtime.Run(imageDocling, doclingArgs, f, &out); err != nil {
		return "", fmt.Errorf("converting %s with docling: %w", pdfPath, err)
	}

	if out.Len() == 0 {
		return "", fmt.Errorf("docling produced empty output for %s", pdfPath)
	}

	return out.String(), nil
}
