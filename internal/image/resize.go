package image

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Resize returns a packed copy of the image resampled to width x height
// with nearest-neighbor sampling.
//
// Nearest-neighbor never blends neighboring pixels, so each output pixel is
// a byte-exact copy of one input pixel. That lets any 4-byte format pass
// through the x/image RGBA fast path unchanged, straight alpha included.
func (b *ImageBuf) Resize(width, height int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if b.format.BytesPerPixel() != 4 {
		return nil, ErrInvalidFormat
	}

	dst, err := NewImageBuf(width, height, b.format)
	if err != nil {
		return nil, err
	}

	src := b.asRGBA()
	dstImg := dst.asRGBA()
	xdraw.NearestNeighbor.Scale(dstImg, dstImg.Rect, src, src.Rect, xdraw.Src, nil)
	return dst, nil
}

// asRGBA views a 4-byte buffer as an *image.RGBA sharing its memory.
func (b *ImageBuf) asRGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    b.data,
		Stride: b.stride,
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}
