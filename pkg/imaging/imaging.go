package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height for stored photos.
const MaxDimension = 1024

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// AllowedMIME lists the accepted input MIME types.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Result contains the processed photo data.
type Result struct {
	Data []byte
	MIME string
}

// Process reads photo data, validates the format by sniffing bytes,
// downscales if larger than MaxDimension, and re-encodes as JPEG.
func Process(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	// Sniff actual MIME type from bytes, not client headers.
	detected := http.DetectContentType(data)
	if !AllowedMIME[detected] {
		return nil, fmt.Errorf("unsupported image format: %s (only JPEG and PNG accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	return &Result{
		Data: buf.Bytes(),
		MIME: "image/jpeg",
	}, nil
}

// downscale resizes the image so neither dimension exceeds maxDim,
// preserving aspect ratio. Returns the original if already within bounds.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
