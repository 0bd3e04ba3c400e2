// Package imaging normalizes uploaded avatar images.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedImage = errors.New("unsupported image")

const jpegQuality = 90

// MaxSide bounds the declared width and height of an accepted image.
const MaxSide = 8192

type Image struct {
	Data        []byte
	Ext         string
	ContentType string
}

// Resize decodes a jpeg, png or webp image and scales it to exactly
// width×height. JPEG input is re-encoded as JPEG, everything else as PNG.
// Images declaring a side larger than MaxSide are rejected before decoding.
func Resize(r io.Reader, width, height int) (Image, error) {
	const op = "imaging.Resize"

	data, err := io.ReadAll(r)
	if err != nil {
		return Image{}, fmt.Errorf("%s: %w", op, err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%s: %w: %v", op, ErrUnsupportedImage, err)
	}
	if cfg.Width > MaxSide || cfg.Height > MaxSide {
		return Image{}, fmt.Errorf("%s: %w: %dx%d exceeds %d pixels per side",
			op, ErrUnsupportedImage, cfg.Width, cfg.Height, MaxSide)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%s: %w: %v", op, ErrUnsupportedImage, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if format == "jpeg" {
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return Image{}, fmt.Errorf("%s: %w", op, err)
		}
		return Image{Data: buf.Bytes(), Ext: ".jpg", ContentType: "image/jpeg"}, nil
	}

	if err := png.Encode(&buf, dst); err != nil {
		return Image{}, fmt.Errorf("%s: %w", op, err)
	}

	return Image{Data: buf.Bytes(), Ext: ".png", ContentType: "image/png"}, nil
}
