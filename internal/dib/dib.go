// Package dib decodes uncompressed device-independent bitmaps as found
// inside Windows icon and cursor resources.
//
// Only the leading fields shared by BITMAPINFOHEADER, BITMAPV4HEADER and
// BITMAPV5HEADER are read, so one routine serves all three.
package dib

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/curconv/internal/image"
)

// Decode errors.
var (
	// ErrUnsupported is returned for header variants, bit depths or
	// compression schemes this decoder does not handle.
	ErrUnsupported = errors.New("dib: unsupported bitmap")

	// ErrTruncated is returned when the header or pixel data is cut short.
	ErrTruncated = errors.New("dib: truncated bitmap")

	// ErrInvalid is returned for structurally impossible headers.
	ErrInvalid = errors.New("dib: invalid bitmap header")
)

// Header sizes of the supported header variants.
const (
	HeaderSizeInfo = 40
	HeaderSizeV4   = 108
	HeaderSizeV5   = 124
)

// compressionRGB is BI_RGB, the only accepted compression code.
const compressionRGB = 0

// maxDimension bounds width and height to keep allocation proportional to
// plausible cursor art.
const maxDimension = 1 << 15

// Header holds the common prefix of the supported bitmap headers.
type Header struct {
	Size        uint32
	Width       int32
	Height      int32 // negative means rows are stored top-down
	BitCount    uint16
	Compression uint32
	ColorsUsed  uint32
}

// IsDIB reports whether data starts with a supported bitmap header size.
func IsDIB(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	switch binary.LittleEndian.Uint32(data) {
	case HeaderSizeInfo, HeaderSizeV4, HeaderSizeV5:
		return true
	}
	return false
}

// ParseHeader reads the common header prefix.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < 4 {
		return Header{}, fmt.Errorf("%w: %d header bytes", ErrTruncated, len(data))
	}
	var h Header
	h.Size = binary.LittleEndian.Uint32(data)
	switch h.Size {
	case HeaderSizeInfo, HeaderSizeV4, HeaderSizeV5:
	default:
		return Header{}, fmt.Errorf("%w: header size %d", ErrUnsupported, h.Size)
	}
	if len(data) < int(h.Size) {
		return Header{}, fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncated, h.Size, len(data))
	}

	//nolint:gosec // G115: reinterpreting the stored two's complement fields
	h.Width = int32(binary.LittleEndian.Uint32(data[4:]))
	//nolint:gosec // G115: reinterpreting the stored two's complement fields
	h.Height = int32(binary.LittleEndian.Uint32(data[8:]))
	h.BitCount = binary.LittleEndian.Uint16(data[14:])
	h.Compression = binary.LittleEndian.Uint32(data[16:])
	h.ColorsUsed = binary.LittleEndian.Uint32(data[32:])
	return h, nil
}

// DecodeIcon decodes a bitmap embedded in an icon or cursor resource.
//
// Such bitmaps declare twice the image height: the color rows are followed
// by a 1 bpp AND mask of the same orientation. When the mask is present it
// supplies transparency for 24 bpp art, and for 32 bpp art whose alpha
// channel is entirely zero.
func DecodeIcon(data []byte) (*image.ImageBuf, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if h.Compression != compressionRGB {
		return nil, fmt.Errorf("%w: compression %d", ErrUnsupported, h.Compression)
	}

	var srcFormat image.Format
	switch h.BitCount {
	case 24:
		srcFormat = image.FormatBGR8
	case 32:
		srcFormat = image.FormatBGRA8
	default:
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrUnsupported, h.BitCount)
	}

	width := int(h.Width)
	rows := int(h.Height)
	topDown := rows < 0
	if topDown {
		rows = -rows
	}
	rows /= 2
	if width <= 0 || rows <= 0 || width > maxDimension || rows > maxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalid, h.Width, h.Height)
	}

	pixOff := int(h.Size) + int(h.ColorsUsed)*4
	stride := srcFormat.AlignedRowBytes(width, 4)
	if pixOff > len(data) {
		return nil, fmt.Errorf("%w: color table past end of data", ErrTruncated)
	}
	src, err := image.FromRaw(data[pixOff:], width, rows, srcFormat, stride)
	if err != nil {
		return nil, fmt.Errorf("%w: need %d pixel bytes, have %d", ErrTruncated, stride*rows, len(data)-pixOff)
	}

	dst, err := image.NewImageBuf(width, rows, image.FormatRGBA8)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	// Bottom-up rows are flipped into canonical top-down order.
	srcRow := func(y int) int {
		if topDown {
			return y
		}
		return rows - 1 - y
	}

	anyAlpha := false
	for y := range rows {
		sy := srcRow(y)
		for x := range width {
			r, g, b, a := src.GetRGBA(x, sy)
			if a != 0 {
				anyAlpha = true
			}
			_ = dst.SetRGBA(x, y, r, g, b, a)
		}
	}

	// 32 bpp art with an all-zero alpha channel predates alpha cursors:
	// treat it as opaque and let the AND mask cut out transparency.
	useMask := srcFormat == image.FormatBGR8 || !anyAlpha
	if !anyAlpha {
		setOpaque(dst)
	}
	if !useMask {
		return dst, nil
	}

	maskStride := (width + 31) / 32 * 4
	maskOff := pixOff + stride*rows
	if maskOff+maskStride*rows > len(data) {
		// Mask omitted by the producer; keep the color data as is.
		return dst, nil
	}
	mask := data[maskOff:]
	for y := range rows {
		row := mask[srcRow(y)*maskStride:]
		for x := range width {
			if row[x/8]&(0x80>>(x%8)) != 0 {
				_ = dst.SetRGBA(x, y, 0, 0, 0, 0)
			}
		}
	}
	return dst, nil
}

func setOpaque(b *image.ImageBuf) {
	data := b.Data()
	for i := 3; i < len(data); i += 4 {
		data[i] = 255
	}
}
