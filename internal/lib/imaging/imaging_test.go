package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func TestResize_PNG(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, png.Encode(&src, sample(640, 480)))

	out, err := Resize(&src, 250, 250)
	require.NoError(t, err)

	assert.Equal(t, ".png", out.Ext)
	assert.Equal(t, "image/png", out.ContentType)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 250, cfg.Width)
	assert.Equal(t, 250, cfg.Height)
}

func TestResize_JPEGStaysJPEG(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, jpeg.Encode(&src, sample(100, 300), nil))

	out, err := Resize(&src, 250, 250)
	require.NoError(t, err)

	assert.Equal(t, ".jpg", out.Ext)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 250, cfg.Width)
	assert.Equal(t, 250, cfg.Height)
}

func TestResize_NotAnImage(t *testing.T) {
	_, err := Resize(strings.NewReader("MZ definitely not an image"), 250, 250)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestResize_RejectsOversizedDimensions(t *testing.T) {
	// an all-zero image compresses to a small file whatever its dimensions
	var src bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	require.NoError(t, enc.Encode(&src, image.NewGray(image.Rect(0, 0, MaxSide+1, 16))))
	require.Less(t, src.Len(), 5<<20)

	_, err := Resize(&src, 250, 250)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestResize_AcceptsMaxSide(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, png.Encode(&src, image.NewGray(image.Rect(0, 0, MaxSide, 1))))

	out, err := Resize(&src, 250, 250)
	require.NoError(t, err)
	assert.Equal(t, ".png", out.Ext)
}
