// Package image provides the pixel buffers used while converting cursors.
//
// Container parsers decode into RGBA8 buffers with straight alpha. The writer
// converts those to premultiplied BGRA before serialization. Resampling is
// nearest-neighbor only, so cursor art keeps its hard edges.
package image

// Format represents a pixel storage format.
type Format uint8

const (
	// FormatBGR8 is 24-bit BGR (3 bytes per pixel, no alpha).
	// This is the on-disk order of 24 bpp device-independent bitmaps.
	FormatBGR8 Format = iota

	// FormatRGBA8 is 32-bit RGBA with straight alpha (4 bytes per pixel).
	// This is the canonical format of decoded cursor images.
	FormatRGBA8

	// FormatRGBAPremul is 32-bit RGBA with premultiplied alpha (4 bytes per pixel).
	FormatRGBAPremul

	// FormatBGRA8 is 32-bit BGRA with straight alpha (4 bytes per pixel).
	// Common on Windows: 32 bpp bitmaps store pixels this way.
	FormatBGRA8

	// FormatBGRAPremul is 32-bit BGRA with premultiplied alpha (4 bytes per pixel).
	// Xcursor image chunks store pixels this way.
	FormatBGRAPremul

	// formatCount is the number of formats (for internal use).
	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// BytesPerPixel is the number of bytes per pixel.
	BytesPerPixel int

	// HasAlpha indicates if the format has an alpha channel.
	HasAlpha bool

	// IsPremultiplied indicates if alpha is premultiplied.
	IsPremultiplied bool

	// IsBGR indicates that blue is stored before red.
	IsBGR bool
}

// formatInfoTable contains metadata for each format.
var formatInfoTable = [formatCount]FormatInfo{
	FormatBGR8:       {BytesPerPixel: 3, IsBGR: true},
	FormatRGBA8:      {BytesPerPixel: 4, HasAlpha: true},
	FormatRGBAPremul: {BytesPerPixel: 4, HasAlpha: true, IsPremultiplied: true},
	FormatBGRA8:      {BytesPerPixel: 4, HasAlpha: true, IsBGR: true},
	FormatBGRAPremul: {BytesPerPixel: 4, HasAlpha: true, IsPremultiplied: true, IsBGR: true},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// HasAlpha returns true if this format has an alpha channel.
func (f Format) HasAlpha() bool {
	return f.Info().HasAlpha
}

// IsPremultiplied returns true if alpha is premultiplied.
func (f Format) IsPremultiplied() bool {
	return f.Info().IsPremultiplied
}

// IsBGR returns true if blue is stored before red.
func (f Format) IsBGR() bool {
	return f.Info().IsBGR
}

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatBGR8:
		return "BGR8"
	case FormatRGBA8:
		return "RGBA8"
	case FormatRGBAPremul:
		return "RGBAPremul"
	case FormatBGRA8:
		return "BGRA8"
	case FormatBGRAPremul:
		return "BGRAPremul"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// RowBytes calculates the number of bytes needed for a row of the given width.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// AlignedRowBytes is RowBytes rounded up to a multiple of align.
// Bitmaps use align 4.
func (f Format) AlignedRowBytes(width, align int) int {
	n := f.RowBytes(width)
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}

// ImageBytes calculates the total number of bytes needed for an image.
func (f Format) ImageBytes(width, height int) int {
	return f.RowBytes(width) * height
}

// PremultipliedVersion returns the premultiplied version of this format.
// Returns the same format if already premultiplied or has no alpha.
func (f Format) PremultipliedVersion() Format {
	switch f {
	case FormatRGBA8:
		return FormatRGBAPremul
	case FormatBGRA8:
		return FormatBGRAPremul
	default:
		return f
	}
}
