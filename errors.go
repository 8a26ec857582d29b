package curconv

import "errors"

// Conversion errors. Parsers and the writer wrap these with details, so
// callers should match them with errors.Is.
var (
	// ErrUnsupportedFormat is returned when no parser recognizes the input.
	ErrUnsupportedFormat = errors.New("curconv: unsupported format")

	// ErrMalformedContainer is returned when a container violates its own
	// structure: bad reserved field or type code, truncated headers or
	// entries, payload ranges outside the input.
	ErrMalformedContainer = errors.New("curconv: malformed container")

	// ErrUnsupportedPixelFormat is returned for embedded rasters that cannot
	// be decoded: compressed or low bit-depth bitmaps, unknown header
	// variants, unrecognized or corrupt compressed payloads.
	ErrUnsupportedPixelFormat = errors.New("curconv: unsupported pixel format")

	// ErrEncodingFailure is returned when the writer is asked to encode a
	// degenerate raster or an invalid nominal size.
	ErrEncodingFailure = errors.New("curconv: encoding failure")

	// ErrInvalidScale is returned for a scale factor that is not a finite
	// positive number.
	ErrInvalidScale = errors.New("curconv: invalid scale factor")
)
