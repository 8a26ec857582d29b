package curconv

import (
	"fmt"
	"image"
	"math"
)

// ScaleSequence resizes every image of every frame in place by factor
// using nearest-neighbor sampling, which keeps cursor art crisp.
//
// Each dimension becomes max(1, round(dim*factor)). Hotspots are scaled,
// rounded and clamped into the new bounds.
func ScaleSequence(seq *Sequence, factor float64) error {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidScale, factor)
	}

	for i, f := range seq.Frames {
		for j, img := range f.Images {
			if err := scaleImage(img, factor); err != nil {
				return fmt.Errorf("frame %d image %d: %w", i, j, err)
			}
		}
	}
	return nil
}

func scaleImage(img *Image, factor float64) error {
	src, err := img.buf()
	if err != nil {
		return err
	}

	w := scaleDim(img.Width, factor)
	h := scaleDim(img.Height, factor)
	out, err := src.Resize(w, h)
	if err != nil {
		return err
	}

	img.Width, img.Height = w, h
	img.Pix = out.Data()
	img.Hotspot = clampPoint(image.Pt(
		int(math.Round(float64(img.Hotspot.X)*factor)),
		int(math.Round(float64(img.Hotspot.Y)*factor)),
	), w, h)
	img.Nominal = scaleDim(img.Nominal, factor)
	return nil
}

// Synthesize renders img at a nominal size of size pixels, ready for an
// Xcursor image chunk.
//
// The larger dimension becomes size and the other keeps the aspect ratio.
// The hotspot is scaled by the same ratio. Pure black pixels are then made
// fully transparent and the result is premultiplied, so the returned image
// holds premultiplied RGBA. img is not modified.
func Synthesize(img *Image, size int) (*Image, error) {
	if size <= 0 || size > maxImageDimension {
		return nil, fmt.Errorf("%w: nominal size %d", ErrEncodingFailure, size)
	}
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}
	src, err := img.buf()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}

	d := img.maxDim()
	w := max(1, mulDiv(img.Width, size, d))
	h := max(1, mulDiv(img.Height, size, d))

	resized, err := src.Resize(w, h)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}
	masked, err := resized.ClearBackground()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}
	Logger().Debug("synthesized variant", "size", size, "width", w, "height", h, "masked", masked)

	premul := resized.Premultiplied()
	return &Image{
		Width:  w,
		Height: h,
		Pix:    premul.Data(),
		Hotspot: clampPoint(image.Pt(
			mulDiv(img.Hotspot.X, size, d),
			mulDiv(img.Hotspot.Y, size, d),
		), w, h),
		Nominal: size,
	}, nil
}

// scaleDim returns max(1, round(v*factor)).
func scaleDim(v int, factor float64) int {
	return max(1, int(math.Round(float64(v)*factor)))
}

// mulDiv returns round(v*num/den).
func mulDiv(v, num, den int) int {
	return int(math.Round(float64(v) * float64(num) / float64(den)))
}
