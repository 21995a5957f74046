package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessReencodesSmallImage(t *testing.T) {
	res, err := Process(bytes.NewReader(encodePNG(t, 64, 48)))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", res.MIME)

	decoded, err := jpeg.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 64, decoded.Bounds().Dx())
	assert.Equal(t, 48, decoded.Bounds().Dy())
}

func TestProcessDownscalesOversizedImage(t *testing.T) {
	res, err := Process(bytes.NewReader(encodePNG(t, 2048, 512)))
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, MaxDimension, decoded.Bounds().Dx())
	assert.Equal(t, 256, decoded.Bounds().Dy())
}

func TestProcessRejectsNonImage(t *testing.T) {
	_, err := Process(bytes.NewReader([]byte("%PDF-1.4 not a photo")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image format")
}
