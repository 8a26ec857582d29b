package image

import (
	"errors"
)

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized
	// or not usable for the requested operation.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrInvalidStride is returned when stride is less than minimum required.
	ErrInvalidStride = errors.New("image: stride too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")

	// ErrOutOfBounds is returned when pixel coordinates are outside image bounds.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")
)

// ImageBuf is a contiguous pixel buffer in one of the known formats.
//
// Rows are stored top-to-bottom. Stride may exceed the packed row length;
// buffers built by this package are always packed.
//
// An ImageBuf is owned by a single conversion and is not safe for
// concurrent mutation.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// NewImageBuf creates a new zeroed image buffer with the given dimensions and format.
func NewImageBuf(width, height int, format Format) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	return &ImageBuf{
		data:   make([]byte, format.ImageBytes(width, height)),
		width:  width,
		height: height,
		stride: format.RowBytes(width),
		format: format,
	}, nil
}

// FromRaw creates an ImageBuf from existing data without copying.
// The caller must ensure data remains valid for the lifetime of the ImageBuf.
// Stride must be at least format.RowBytes(width).
func FromRaw(data []byte, width, height int, format Format, stride int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	minStride := format.RowBytes(width)
	if stride < minStride {
		return nil, ErrInvalidStride
	}

	// The last row only needs its packed length.
	requiredSize := stride*(height-1) + minStride
	if len(data) < requiredSize {
		return nil, ErrDataTooSmall
	}

	return &ImageBuf{
		data:   data[:requiredSize],
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int {
	return b.height
}

// Format returns the pixel format.
func (b *ImageBuf) Format() Format {
	return b.format
}

// Bounds returns the image dimensions as (width, height).
func (b *ImageBuf) Bounds() (int, int) {
	return b.width, b.height
}

// Data returns the raw pixel data slice.
func (b *ImageBuf) Data() []byte {
	return b.data
}

// RowBytes returns a slice of the pixel data for row y.
// Returns nil if y is out of bounds.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	end := start + b.format.RowBytes(b.width)
	return b.data[start:end]
}

// PixelOffset returns the byte offset of pixel (x, y) in the data slice.
// Returns -1 if coordinates are out of bounds.
func (b *ImageBuf) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*b.format.BytesPerPixel()
}

// GetRGBA returns the stored channels at (x, y) in RGBA order.
// Premultiplied formats return premultiplied values. Formats without
// alpha report a=255. Returns (0,0,0,0) if coordinates are out of bounds.
func (b *ImageBuf) GetRGBA(x, y int) (r, g, bl, a uint8) {
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return 0, 0, 0, 0
	}
	p := b.data[offset:]

	switch b.format {
	case FormatBGR8:
		return p[2], p[1], p[0], 255
	case FormatRGBA8, FormatRGBAPremul:
		return p[0], p[1], p[2], p[3]
	case FormatBGRA8, FormatBGRAPremul:
		return p[2], p[1], p[0], p[3]
	default:
		return 0, 0, 0, 0
	}
}

// SetRGBA stores channels given in RGBA order at (x, y) without any
// premultiplication. Alpha is dropped for formats without it.
// Returns ErrOutOfBounds if coordinates are outside image bounds.
func (b *ImageBuf) SetRGBA(x, y int, r, g, bl, a uint8) error {
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return ErrOutOfBounds
	}
	p := b.data[offset:]

	switch b.format {
	case FormatBGR8:
		p[0], p[1], p[2] = bl, g, r
	case FormatRGBA8, FormatRGBAPremul:
		p[0], p[1], p[2], p[3] = r, g, bl, a
	case FormatBGRA8, FormatBGRAPremul:
		p[0], p[1], p[2], p[3] = bl, g, r, a
	}
	return nil
}

// Convert returns a packed copy of the image in format f.
// Channel order is swizzled and alpha is premultiplied or unpremultiplied
// as the source and target formats require.
func (b *ImageBuf) Convert(f Format) (*ImageBuf, error) {
	if !f.IsValid() {
		return nil, ErrInvalidFormat
	}
	dst, err := NewImageBuf(b.width, b.height, f)
	if err != nil {
		return nil, err
	}

	srcPremul := b.format.IsPremultiplied()
	dstPremul := f.IsPremultiplied()

	for y := range b.height {
		for x := range b.width {
			r, g, bl, a := b.GetRGBA(x, y)
			switch {
			case dstPremul && !srcPremul:
				r, g, bl = premul(r, a), premul(g, a), premul(bl, a)
			case srcPremul && !dstPremul:
				r, g, bl = unpremul(r, a), unpremul(g, a), unpremul(bl, a)
			}
			_ = dst.SetRGBA(x, y, r, g, bl, a)
		}
	}
	return dst, nil
}

// Premultiplied returns a premultiplied copy of the image.
// Formats without alpha or already premultiplied are cloned unchanged.
func (b *ImageBuf) Premultiplied() *ImageBuf {
	dst, _ := b.Convert(b.format.PremultipliedVersion())
	return dst
}

// ClearBackground forces every pixel whose color channels are all zero to
// fully transparent white (R=G=B=255, A=0), whatever its alpha was.
// Legacy cursor art uses pure black as the transparent color.
// It returns the number of pixels changed. Only straight-alpha formats
// are accepted.
func (b *ImageBuf) ClearBackground() (int, error) {
	if !b.format.HasAlpha() || b.format.IsPremultiplied() {
		return 0, ErrInvalidFormat
	}

	n := 0
	for y := range b.height {
		row := b.RowBytes(y)
		for x := 0; x < len(row); x += 4 {
			// R, G and B occupy the first three bytes in both RGBA and BGRA.
			if row[x] == 0 && row[x+1] == 0 && row[x+2] == 0 {
				row[x], row[x+1], row[x+2], row[x+3] = 255, 255, 255, 0
				n++
			}
		}
	}
	return n, nil
}

// premul computes round(c * a / 255).
func premul(c, a uint8) uint8 {
	return uint8((uint16(c)*uint16(a) + 127) / 255)
}

// unpremul computes round(c * 255 / a), clamped to 255.
// Fully transparent pixels unpremultiply to zero.
func unpremul(c, a uint8) uint8 {
	if a == 0 {
		return 0
	}
	v := (uint32(c)*255 + uint32(a)/2) / uint32(a)
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
