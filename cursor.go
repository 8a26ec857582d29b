package curconv

import (
	"fmt"
	"image"
	"time"

	intImage "github.com/gogpu/curconv/internal/image"
)

// Image is one resolution of one cursor pose.
//
// Pix holds Width*Height*4 bytes of RGBA with straight alpha, row-major,
// top row first. Images returned by Synthesize hold premultiplied alpha
// instead.
type Image struct {
	Width   int
	Height  int
	Pix     []byte
	Hotspot image.Point

	// Nominal is the display size this variant is meant for.
	Nominal int
}

// Validate checks the buffer length and hotspot invariants.
func (img *Image) Validate() error {
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("curconv: image has invalid dimensions %dx%d", img.Width, img.Height)
	}
	if len(img.Pix) != img.Width*img.Height*4 {
		return fmt.Errorf("curconv: image buffer has %d bytes, want %d", len(img.Pix), img.Width*img.Height*4)
	}
	if !img.Hotspot.In(image.Rect(0, 0, img.Width, img.Height)) {
		return fmt.Errorf("curconv: hotspot %v outside %dx%d image", img.Hotspot, img.Width, img.Height)
	}
	return nil
}

// Clone returns a deep copy of the image.
func (img *Image) Clone() *Image {
	c := *img
	c.Pix = append([]byte(nil), img.Pix...)
	return &c
}

// maxDim returns the larger of width and height.
func (img *Image) maxDim() int {
	return max(img.Width, img.Height)
}

// buf views the pixels as an RGBA8 buffer sharing memory with img.
func (img *Image) buf() (*intImage.ImageBuf, error) {
	return intImage.FromRaw(img.Pix, img.Width, img.Height, intImage.FormatRGBA8, img.Width*4)
}

// newImage builds an Image from a packed buffer, clamping the hotspot
// into bounds.
func newImage(b *intImage.ImageBuf, hotspot image.Point) *Image {
	w, h := b.Bounds()
	return &Image{
		Width:   w,
		Height:  h,
		Pix:     b.Data(),
		Hotspot: clampPoint(hotspot, w, h),
		Nominal: max(w, h),
	}
}

// Frame is one animation pose: its resolution variants plus how long it is
// shown. Static cursors have a zero delay.
type Frame struct {
	Images []*Image
	Delay  time.Duration
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	c := &Frame{Delay: f.Delay, Images: make([]*Image, len(f.Images))}
	for i, img := range f.Images {
		c.Images[i] = img.Clone()
	}
	return c
}

// base returns the largest variant, the first one on ties.
func (f *Frame) base() *Image {
	var best *Image
	for _, img := range f.Images {
		if best == nil || img.maxDim() > best.maxDim() {
			best = img
		}
	}
	return best
}

// Sequence is a decoded cursor: frames in playback order, a single frame
// for static cursors.
type Sequence struct {
	Frames []*Frame

	// Title and Author come from ANI INFO lists or Xcursor comments.
	Title  string
	Author string
}

// Len returns the number of frames.
func (s *Sequence) Len() int {
	return len(s.Frames)
}

// Animated reports whether the sequence has more than one frame.
func (s *Sequence) Animated() bool {
	return len(s.Frames) > 1
}

// Validate checks every image of every frame.
func (s *Sequence) Validate() error {
	for i, f := range s.Frames {
		if len(f.Images) == 0 {
			return fmt.Errorf("curconv: frame %d has no images", i)
		}
		for j, img := range f.Images {
			if err := img.Validate(); err != nil {
				return fmt.Errorf("frame %d image %d: %w", i, j, err)
			}
		}
	}
	return nil
}

func clampPoint(p image.Point, w, h int) image.Point {
	return image.Pt(clampInt(p.X, 0, w-1), clampInt(p.Y, 0, h-1))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
