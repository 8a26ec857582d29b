package curconv

import (
	"fmt"
	"image"

	intImage "github.com/gogpu/curconv/internal/image"
)

// parseRaster turns a standalone PNG, BMP or WebP into a static cursor
// with its hotspot at the top-left corner.
func parseRaster(blob []byte) (*Sequence, error) {
	buf, err := intImage.Decode(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPixelFormat, err)
	}
	Logger().Debug("raster input", "width", buf.Width(), "height", buf.Height())

	img := newImage(buf, image.Point{})
	return &Sequence{Frames: []*Frame{{Images: []*Image{img}}}}, nil
}
