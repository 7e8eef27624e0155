// Package storage keeps shop images.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const (
	MaxImageWidth  = 1200
	MaxUploadBytes = 10 << 20
	webpQuality    = 80
)

var ErrNotAnImage = errors.New("unsupported image format")

// EncodeWebP decodes a JPEG, PNG or WebP image, scales it down to
// MaxImageWidth when wider and re-encodes it as lossy WebP. Only undecodable
// input yields ErrNotAnImage; read and encode failures are returned wrapped.
func EncodeWebP(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrNotAnImage
	}

	img := src
	if b := src.Bounds(); b.Dx() > MaxImageWidth {
		height := b.Dy() * MaxImageWidth / b.Dx()
		if height < 1 {
			height = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, MaxImageWidth, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}
