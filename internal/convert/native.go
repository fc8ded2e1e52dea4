// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// NativeConverter extracts the embedded text layer of a PDF in pure Go.
// Scanned (image-only) PDFs have no text layer and produce empty output;
// those need the docling backend, which runs OCR.
type NativeConverter struct{}

// NewNativeConverter creates the pure-Go text-layer converter.
func NewNativeConverter() *NativeConverter {
	return &NativeConverter{}
}

// Convert reads the PDF at pdfPath and returns its text layer as Markdown,
// one paragraph block per page.
func (n *NativeConverter) Convert(pdfPath string) (string, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	fonts := make(map[string]*pdf.Font)
	var parts []string

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("extracting page %d of %s: %w", i, pdfPath, err)
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text layer in %s (scanned PDF? use the docling backend)", pdfPath)
	}
	return strings.Join(parts, "\n\n"), nil
}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()
	return r.NumPage(), nil
}
