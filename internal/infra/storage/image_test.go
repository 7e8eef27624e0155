package storage

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestEncodeWebPScalesWideImages(t *testing.T) {
	out, err := EncodeWebP(pngOf(t, 2400, 600))
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, MaxImageWidth, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}

func TestEncodeWebPKeepsSmallImages(t *testing.T) {
	out, err := EncodeWebP(pngOf(t, 400, 200))
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
}

func TestEncodeWebPRejectsGarbage(t *testing.T) {
	_, err := EncodeWebP(strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestEncodeWebPKeepsReadErrors(t *testing.T) {
	_, err := EncodeWebP(brokenReader{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotAnImage)
	assert.Contains(t, err.Error(), "connection reset")
}
