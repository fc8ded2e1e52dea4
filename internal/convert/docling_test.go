// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRuntime implements container.Runtime without a real container engine.
type fakeRuntime struct {
	imageErr error
	runFunc  func(image string, args []string, stdin io.Reader, stdout io.Writer) error
}

func (f *fakeRuntime) Name() string    { return "docker" }
func (f *fakeRuntime) Available() bool { return true }

func (f *fakeRuntime) ImageExists(image string) error { return f.imageErr }

func (f *fakeRuntime) Run(image string, args []string, stdin io.Reader, stdout io.Writer) error {
	if f.runFunc != nil {
		return f.runFunc(image, args, stdin, stdout)
	}
	return nil
}

func TestNewDoclingConverterImageMissing(t *testing.T) {
	_, err := NewDoclingConverter(&fakeRuntime{imageErr: errors.New("no such image")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docling image not available")
}

func TestDoclingConvert(t *testing.T) {
	pdfPath := setupPDF(t)

	rt := &fakeRuntime{
		runFunc: func(image string, args []string, stdin io.Reader, stdout io.Writer) error {
			assert.Equal(t, imageDocling, image)
			assert.Equal(t, doclingArgs, args)

			// The PDF bytes must reach the container on stdin.
			data, err := io.ReadAll(stdin)
			require.NoError(t, err)
			assert.Equal(t, "fake pdf", string(data))

			_, err = io.WriteString(stdout, "# 标题\n\n正文")
			return err
		},
	}

	c, err := NewDoclingConverter(rt)
	require.NoError(t, err)

	md, err := c.Convert(pdfPath)
	require.NoError(t, err)
	assert.Equal(t, "# 标题\n\n正文", md)
}

func TestDoclingConvertEmptyOutput(t *testing.T) {
	c, err := NewDoclingConverter(&fakeRuntime{})
	require.NoError(t, err)

	_, err = c.Convert(setupPDF(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty output")
}

func TestDoclingConvertRuntimeFailure(t *testing.T) {
	rt := &fakeRuntime{
		runFunc: func(string, []string, io.Reader, io.Writer) error {
			return errors.New("exit status 1")
		},
	}
	c, err := NewDoclingConverter(rt)
	require.NoError(t, err)

	_, err = c.Convert(setupPDF(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "converting")
}
