// Package imaging validates uploaded listing photos and normalises them to
// bounded JPEGs.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // registers the PNG decoder
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// Defaults for Options.
const (
	DefaultMaxDimension = 1024
	DefaultQuality      = 85
	DefaultMaxBytes     = 5 << 20
	DefaultMaxPixels    = 40_000_000
)

// OutputMIME is the type of every processed image.
const OutputMIME = "image/jpeg"

var (
	// ErrUnsupported is returned for input that is not a JPEG or PNG.
	ErrUnsupported = errors.New("unsupported image format")
	// ErrTooLarge is returned when the input exceeds the byte or pixel limit.
	ErrTooLarge = errors.New("image too large")
)

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Options bound the accepted input and shape the output. Zero fields take
// their defaults.
type Options struct {
	MaxDimension int
	Quality      int
	MaxBytes     int64
	MaxPixels    int
}

func (o Options) withDefaults() Options {
	if o.MaxDimension <= 0 {
		o.MaxDimension = DefaultMaxDimension
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.MaxPixels <= 0 {
		o.MaxPixels = DefaultMaxPixels
	}
	return o
}

// Result is a processed image.
type Result struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Process reads an uploaded image, checks its type from the bytes rather
// than any client header, fits it within MaxDimension and re-encodes it as
// JPEG. Errors wrap ErrUnsupported or ErrTooLarge when the input is at fault.
func Process(r io.Reader, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	data, err := io.ReadAll(io.LimitReader(r, opts.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if int64(len(data)) > opts.MaxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, opts.MaxBytes)
	}

	detected := http.DetectContentType(data)
	if !allowedMIME[detected] {
		return nil, fmt.Errorf("%w: %s (only JPEG and PNG accepted)", ErrUnsupported, detected)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if cfg.Width*cfg.Height > opts.MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d pixels", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	img = fit(img, opts.MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	b := img.Bounds()
	return &Result{
		Data:   buf.Bytes(),
		MIME:   OutputMIME,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// fitSize returns w x h scaled down to fit a max x max box, keeping the
// aspect ratio. Sizes already inside the box are returned unchanged.
func fitSize(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}
	if w >= h {
		return max, clampMin(h * max / w)
	}
	return clampMin(w * max / h), max
}

func clampMin(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// fit scales img with Catmull-Rom so neither side exceeds max.
func fit(img image.Image, max int) image.Image {
	src := img.Bounds()
	w, h := fitSize(src.Dx(), src.Dy(), max)
	if w == src.Dx() && h == src.Dy() {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Over, nil)
	return dst
}
