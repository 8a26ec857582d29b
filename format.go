package curconv

import (
	"bytes"
	"encoding/binary"
	"fmt"

	intImage "github.com/gogpu/curconv/internal/image"
)

// Format identifies an input container.
type Format uint8

const (
	// FormatUnknown means no parser recognized the input.
	FormatUnknown Format = iota

	// FormatCUR is a Windows static cursor.
	FormatCUR

	// FormatANI is a Windows animated cursor (RIFF ACON).
	FormatANI

	// FormatXcursor is an X11 Xcursor file.
	FormatXcursor

	// FormatRaster is a plain PNG, BMP or WebP image.
	FormatRaster
)

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatCUR:
		return "CUR"
	case FormatANI:
		return "ANI"
	case FormatXcursor:
		return "Xcursor"
	case FormatRaster:
		return "Raster"
	default:
		return "Unknown"
	}
}

// parser pairs a cheap structural probe with the full decoder.
type parser struct {
	format Format
	probe  func(blob []byte) bool
	parse  func(blob []byte) (*Sequence, error)
}

// parsers is evaluated in order; the first probe that matches wins.
var parsers = [...]parser{
	{FormatCUR, probeCUR, parseCUR},
	{FormatANI, probeANI, parseANI},
	{FormatXcursor, probeXcursor, parseXcursor},
	{FormatRaster, probeRaster, parseRaster},
}

// Detect reports which container format blob holds without decoding it.
// It returns FormatUnknown when nothing matches.
func Detect(blob []byte) Format {
	for _, p := range parsers {
		if p.probe(blob) {
			return p.format
		}
	}
	return FormatUnknown
}

// Parse detects the container format of blob and decodes it.
//
// Failures wrap ErrUnsupportedFormat, ErrMalformedContainer or
// ErrUnsupportedPixelFormat. No partial sequence is returned on error.
func Parse(blob []byte) (*Sequence, error) {
	for _, p := range parsers {
		if !p.probe(blob) {
			continue
		}
		seq, err := p.parse(blob)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.format, err)
		}
		Logger().Debug("parsed cursor", "format", p.format, "frames", seq.Len())
		return seq, nil
	}
	return nil, ErrUnsupportedFormat
}

// probeCUR accepts an icon directory header of type 1 or 2. Reserved, type
// and entry bounds checks are left to parseCUR so that bad values are
// reported as malformed rather than unrecognized.
func probeCUR(blob []byte) bool {
	if len(blob) < iconDirSize {
		return false
	}
	typ := binary.LittleEndian.Uint16(blob[2:])
	return typ == iconTypeICO || typ == iconTypeCUR
}

func probeANI(blob []byte) bool {
	return len(blob) >= 12 && bytes.Equal(blob[0:4], []byte("RIFF")) && bytes.Equal(blob[8:12], []byte("ACON"))
}

func probeXcursor(blob []byte) bool {
	return len(blob) >= 4 && binary.LittleEndian.Uint32(blob) == xcursorMagic
}

func probeRaster(blob []byte) bool {
	_, ok := intImage.Sniff(blob)
	return ok
}
