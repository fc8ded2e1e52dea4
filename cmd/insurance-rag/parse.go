// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/qd-maker/insurance-rag/internal/container"
	"github.com/qd-maker/insurance-rag/internal/convert"
	"github.com/qd-maker/insurance-rag/internal/store"
	"github.com/qd-maker/insurance-rag/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse [pdf-path]",
	Short: "Convert a PDF to Markdown with CJK whitespace cleanup",
	Long: `Parse converts a PDF to Markdown, removes whitespace artifacts around
CJK characters, and prints a single-line JSON object to stdout:

  {"markdown": "...", "page_count": N}

On any conversion failure the JSON object is {"error": "..."} instead and the
exit status stays zero; only a missing argument exits non-zero. Results are
cached by content hash so reparsing an unchanged PDF skips the converter.`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	RunE:          runParse,
}

func init() {
	parseCmd.Flags().String("backend", "", "conversion backend: docling or native (default from config, else docling)")
	parseCmd.Flags().Bool("no-cache", false, "skip the conversion cache and reconvert")
	parseCmd.Flags().String("cache-dir", "", "conversion cache directory (default from config, else .insurance-rag/cache)")
	parseCmd.Flags().String("out-dir", "", "also write <name>.md and a YAML metadata sidecar into this directory")

	rootCmd.AddCommand(parseCmd)
}

// errorLine is the JSON failure shape of the parse contract.
type errorLine struct {
	Error string `json:"error"`
}

// writeLine emits v as one line of JSON on w. HTML escaping is off so CJK
// text and URLs stay readable.
func writeLine(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encoding output: %v\n", err)
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) < 1 {
		writeLine(out, errorLine{Error: "usage: insurance-rag parse <pdf-path>"})
		return fmt.Errorf("missing pdf path")
	}

	doc, err := parseOne(cmd, args[0])
	if err != nil {
		// Converter and filesystem failures are part of the JSON
		// contract, not process failures.
		writeLine(out, errorLine{Error: err.Error()})
		return nil
	}

	writeLine(out, doc)
	return nil
}

// parseOne runs the full pipeline for a single PDF: path validation, cache
// lookup, conversion, cache fill, and optional artifact output. Validation
// comes first so a cached conversion cannot resurrect a path that no longer
// meets the contract (renamed extension, deleted file).
func parseOne(cmd *cobra.Command, pdfPath string) (types.Document, error) {
	if err := convert.ValidatePath(pdfPath); err != nil {
		return types.Document{}, err
	}

	backend := selectBackend(cmd)
	outDir, _ := cmd.Flags().GetString("out-dir")

	st := openCache(cmd)
	if st != nil {
		defer st.Close()
	}

	id, idErr := convert.DocumentID(pdfPath)

	if st != nil && idErr == nil {
		if doc, meta, err := st.Get(id); err == nil {
			fmt.Fprintf(os.Stderr, "cache hit: %s\n", shortID(id))
			if outDir != "" {
				if _, err := convert.WriteArtifacts(doc, meta, outDir); err != nil {
					return types.Document{}, err
				}
			}
			return doc, nil
		} else if !errors.Is(err, store.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "warning: cache lookup failed: %v\n", err)
		}
	}

	conv, err := newConverter(backend)
	if err != nil {
		return types.Document{}, err
	}

	doc, err := convert.ParsePDF(conv, pdfPath)
	if err != nil {
		return types.Document{}, err
	}

	meta := convert.NewMeta(id, pdfPath, doc, backend)

	if st != nil && idErr == nil {
		if err := st.Put(doc, meta); err != nil {
			fmt.Fprintf(os.Stderr, "warning: cache write failed: %v\n", err)
		}
	}

	if outDir != "" {
		if _, err := convert.WriteArtifacts(doc, meta, outDir); err != nil {
			return types.Document{}, err
		}
	}

	return doc, nil
}

// selectBackend resolves the conversion backend: flag, then config, then
// docling.
func selectBackend(cmd *cobra.Command) types.ConversionBackend {
	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		return types.ConversionBackend(v)
	}
	if v := viper.GetString("conversion.backend"); v != "" {
		return types.ConversionBackend(v)
	}
	return types.BackendDocling
}

// openCache opens the conversion cache, or returns nil when caching is off or
// the cache cannot be opened. A broken cache degrades to reconversion rather
// than failing the parse.
func openCache(cmd *cobra.Command) *store.Store {
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache || viper.GetBool("store.disabled") {
		return nil
	}

	dir, _ := cmd.Flags().GetString("cache-dir")
	if dir == "" {
		dir = viper.GetString("store.cache_dir")
	}
	if dir == "" {
		dir = ".insurance-rag/cache"
	}

	st, err := store.Open(types.StoreConfig{CacheDir: dir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: conversion cache unavailable: %v\n", err)
		return nil
	}
	return st
}

// newConverter builds the converter for the selected backend. The docling
// backend needs a container runtime with the docling image present.
func newConverter(backend types.ConversionBackend) (convert.Converter, error) {
	switch backend {
	case types.BackendNative:
		return convert.NewNativeConverter(), nil
	case types.BackendDocling:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return convert.NewDoclingConverter(rt)
	default:
		return nil, fmt.Errorf("unknown conversion backend: %s", backend)
	}
}
