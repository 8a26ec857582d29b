package image

import "testing"

func TestFormat_BytesPerPixel(t *testing.T) {
	tests := []struct {
		format   Format
		expected int
	}{
		{FormatBGR8, 3},
		{FormatRGBA8, 4},
		{FormatRGBAPremul, 4},
		{FormatBGRA8, 4},
		{FormatBGRAPremul, 4},
		{Format(200), 0},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.BytesPerPixel(); got != tt.expected {
				t.Errorf("BytesPerPixel() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestFormat_Flags(t *testing.T) {
	tests := []struct {
		format  Format
		alpha   bool
		premul  bool
		bgr     bool
		isValid bool
	}{
		{FormatBGR8, false, false, true, true},
		{FormatRGBA8, true, false, false, true},
		{FormatRGBAPremul, true, true, false, true},
		{FormatBGRA8, true, false, true, true},
		{FormatBGRAPremul, true, true, true, true},
		{formatCount, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.HasAlpha(); got != tt.alpha {
				t.Errorf("HasAlpha() = %v, want %v", got, tt.alpha)
			}
			if got := tt.format.IsPremultiplied(); got != tt.premul {
				t.Errorf("IsPremultiplied() = %v, want %v", got, tt.premul)
			}
			if got := tt.format.IsBGR(); got != tt.bgr {
				t.Errorf("IsBGR() = %v, want %v", got, tt.bgr)
			}
			if got := tt.format.IsValid(); got != tt.isValid {
				t.Errorf("IsValid() = %v, want %v", got, tt.isValid)
			}
		})
	}
}

func TestFormat_AlignedRowBytes(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		width  int
		want   int
	}{
		{"24bpp width 1", FormatBGR8, 1, 4},
		{"24bpp width 3", FormatBGR8, 3, 12},
		{"24bpp width 5", FormatBGR8, 5, 16},
		{"24bpp width 32", FormatBGR8, 32, 96},
		{"32bpp width 3", FormatBGRA8, 3, 12},
		{"32bpp width 7", FormatBGRA8, 7, 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.AlignedRowBytes(tt.width, 4); got != tt.want {
				t.Errorf("AlignedRowBytes(%d, 4) = %d, want %d", tt.width, got, tt.want)
			}
		})
	}

	if got := FormatBGR8.AlignedRowBytes(5, 1); got != 15 {
		t.Errorf("AlignedRowBytes(5, 1) = %d, want 15", got)
	}
}

func TestFormat_PremultipliedVersion(t *testing.T) {
	tests := []struct {
		in, premul Format
	}{
		{FormatRGBA8, FormatRGBAPremul},
		{FormatBGRA8, FormatBGRAPremul},
		{FormatRGBAPremul, FormatRGBAPremul},
		{FormatBGRAPremul, FormatBGRAPremul},
		{FormatBGR8, FormatBGR8},
	}

	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			if got := tt.in.PremultipliedVersion(); got != tt.premul {
				t.Errorf("PremultipliedVersion() = %v, want %v", got, tt.premul)
			}
		})
	}
}
