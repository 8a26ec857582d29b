package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	// Raster codecs accepted inside cursor containers and as raw input.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when no registered codec recognizes the data.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")

	// ErrTooLarge is returned when a raster header declares dimensions
	// above MaxDimension.
	ErrTooLarge = errors.New("image: dimensions too large")
)

// MaxDimension is the largest width or height Decode accepts. It matches
// the Xcursor image limit.
const MaxDimension = 0x7fff

// pngSignature starts every PNG stream.
var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// IsPNG reports whether data starts with the PNG signature.
func IsPNG(data []byte) bool {
	return bytes.HasPrefix(data, pngSignature)
}

// Sniff reports the codec name that recognizes data without decoding pixels.
func Sniff(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	_, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", false
	}
	return name, true
}

// Decode decodes a compressed raster (PNG, BMP or WebP) into an RGBA8 buffer.
func Decode(data []byte) (*ImageBuf, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedFormat
		}
		return nil, fmt.Errorf("image: decode header: %w", err)
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedFormat
		}
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	buf := FromStdImage(img)
	if buf == nil {
		return nil, ErrInvalidDimensions
	}
	return buf, nil
}

// FromStdImage creates an RGBA8 ImageBuf from a standard library image.Image.
// Returns nil for an empty image.
func FromStdImage(img image.Image) *ImageBuf {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	buf, err := NewImageBuf(width, height, FormatRGBA8)
	if err != nil {
		return nil
	}

	// Fast path for NRGBA images: same layout as RGBA8.
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := range height {
			srcStart := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(buf.RowBytes(y), nrgba.Pix[srcStart:srcStart+width*4])
		}
		return buf
	}

	// RGBA images are premultiplied; undo it on the way in.
	if rgba, ok := img.(*image.RGBA); ok {
		for y := range height {
			src := rgba.Pix[rgba.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			dst := buf.RowBytes(y)
			for x := 0; x < width*4; x += 4 {
				a := src[x+3]
				dst[x] = unpremul(src[x], a)
				dst[x+1] = unpremul(src[x+1], a)
				dst[x+2] = unpremul(src[x+2], a)
				dst[x+3] = a
			}
		}
		return buf
	}

	// Generic slow path for any image type
	for y := range height {
		for x := range width {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			_ = buf.SetRGBA(x, y, c.R, c.G, c.B, c.A)
		}
	}
	return buf
}
