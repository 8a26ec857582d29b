// Package curconv converts Windows cursors to X11 Xcursor files.
//
// # Overview
//
// curconv reads static (.cur) and animated (.ani) Windows cursors, as well
// as existing Xcursor files and plain PNG, BMP or WebP images, into a
// format-neutral Sequence of frames. A Sequence can be rescaled and then
// serialized as a multi-size, optionally animated Xcursor theme file.
//
// # Quick Start
//
//	import "github.com/gogpu/curconv"
//
//	blob, _ := os.ReadFile("pointer.ani")
//	seq, err := curconv.Parse(blob)
//	if err != nil {
//		return err
//	}
//	out, err := curconv.WriteXcursor(seq, curconv.WithSizes(24, 32, 48))
//
// Or in one step:
//
//	out, err := curconv.Convert(blob, curconv.WithScale(1.5))
//
// # Pipeline
//
// Conversion runs in three stages:
//   - Parse: Detect picks the first parser whose probe matches (CUR, ANI,
//     Xcursor, raster) and decodes every payload exactly once
//   - ScaleSequence: optional nearest-neighbor rescale by a factor
//   - WriteXcursor: for every frame and nominal size, Synthesize the
//     largest variant and store it as premultiplied BGRA
//
// # Pixels
//
// Image.Pix is RGBA with straight alpha, top row first. Synthesize returns
// premultiplied pixels and applies the background rule: pixels whose red,
// green and blue are all zero become fully transparent.
//
// # Errors
//
// Failures wrap one of ErrUnsupportedFormat, ErrMalformedContainer,
// ErrUnsupportedPixelFormat, ErrEncodingFailure or ErrInvalidScale and can
// be tested with errors.Is.
//
// # Logging
//
// The package is silent by default. Call SetLogger to receive debug
// traces of container layouts and warnings about repaired input.
package curconv

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
