package curconv

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/bmp"
)

func TestDetect(t *testing.T) {
	xcur, err := WriteXcursor(&Sequence{})
	if err != nil {
		t.Fatalf("WriteXcursor() error = %v", err)
	}

	tests := []struct {
		name string
		blob []byte
		want Format
	}{
		{"cur", buildCUR(t, curEntry{img: solidImage(4, 4, 1, 1, 1, 255)}), FormatCUR},
		{"empty cur", buildCUR(t), FormatCUR},
		{"ani", aniFile{icons: aniIcons(t, 1), flags: aniFlagIcon}.build(), FormatANI},
		{"xcursor", xcur, FormatXcursor},
		{"png", encodePNG(t, solidImage(3, 3, 1, 2, 3, 255)), FormatRaster},
		{"wave riff", append([]byte("RIFF\x04\x00\x00\x00WAVE"), make([]byte, 8)...), FormatUnknown},
		{"cur directory past end", []byte{0, 0, 2, 0, 5, 0}, FormatCUR},
		{"short", []byte{0, 0}, FormatUnknown},
		{"empty", nil, FormatUnknown},
		{"text", []byte("hello, world"), FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.blob); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	seq, err := Parse([]byte("definitely not a cursor"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Parse() error = %v, want %v", err, ErrUnsupportedFormat)
	}
	if seq != nil {
		t.Error("Parse() returned a sequence for unsupported input")
	}
}

func TestParseRaster(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 5, 3))
	for y := range 3 {
		for x := range 5 {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 80), B: 7, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, src); err != nil {
		t.Fatalf("bmp.Encode: %v", err)
	}

	if got := Detect(buf.Bytes()); got != FormatRaster {
		t.Fatalf("Detect() = %v, want Raster", got)
	}
	seq, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if seq.Len() != 1 || len(seq.Frames[0].Images) != 1 {
		t.Fatalf("got %d frames, want 1 frame with 1 image", seq.Len())
	}
	img := seq.Frames[0].Images[0]
	if img.Width != 5 || img.Height != 3 || img.Hotspot != (image.Point{}) {
		t.Errorf("got %dx%d hotspot %v, want 5x3 hotspot (0,0)", img.Width, img.Height, img.Hotspot)
	}
	if !bytes.Equal(img.Pix, src.Pix) {
		t.Errorf("Pix = %v, want %v", img.Pix, src.Pix)
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		f    Format
		want string
	}{
		{FormatUnknown, "Unknown"},
		{FormatCUR, "CUR"},
		{FormatANI, "ANI"},
		{FormatXcursor, "Xcursor"},
		{FormatRaster, "Raster"},
		{Format(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.f, got, tt.want)
		}
	}
}
