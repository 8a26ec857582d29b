package curconv

import (
	"reflect"
	"testing"
)

func TestDefaultWriteOptions(t *testing.T) {
	o := defaultWriteOptions()

	if !reflect.DeepEqual(o.sizes, DefaultSizes()) {
		t.Errorf("sizes = %v, want %v", o.sizes, DefaultSizes())
	}
	if o.comments {
		t.Error("comments should be off by default")
	}
}

func TestWithSizes(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want []int
	}{
		{"explicit", []int{48, 24}, []int{48, 24}},
		{"empty selects defaults", nil, DefaultSizes()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultWriteOptions()
			WithSizes(tt.in...)(&o)
			if !reflect.DeepEqual(o.sizes, tt.want) {
				t.Errorf("sizes = %v, want %v", o.sizes, tt.want)
			}
		})
	}
}

func TestWithSizesCopiesInput(t *testing.T) {
	tests := []struct {
		name  string
		apply func(in []int, opt WriteOption) []int
	}{
		{"caller edits before apply", func(in []int, opt WriteOption) []int {
			in[0] = 99
			o := defaultWriteOptions()
			opt(&o)
			return o.sizes
		}},
		{"caller edits after apply", func(in []int, opt WriteOption) []int {
			o := defaultWriteOptions()
			opt(&o)
			in[0] = 99
			return o.sizes
		}},
		{"applied twice", func(_ []int, opt WriteOption) []int {
			first := defaultWriteOptions()
			opt(&first)
			first.sizes[0] = 99
			second := defaultWriteOptions()
			opt(&second)
			return second.sizes
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := []int{16, 32}
			got := tt.apply(in, WithSizes(in...))
			if !reflect.DeepEqual(got, []int{16, 32}) {
				t.Errorf("sizes = %v, want [16 32]", got)
			}
		})
	}
}

func TestConvertOptions(t *testing.T) {
	var o convertOptions
	for _, opt := range []ConvertOption{
		WithScale(1.5),
		WithWriteOptions(WithSizes(24)),
		WithWriteOptions(WithComments(true)),
	} {
		opt(&o)
	}

	if o.scale != 1.5 {
		t.Errorf("scale = %v, want 1.5", o.scale)
	}
	if len(o.write) != 2 {
		t.Fatalf("len(write) = %d, want 2", len(o.write))
	}

	w := defaultWriteOptions()
	for _, opt := range o.write {
		opt(&w)
	}
	if !reflect.DeepEqual(w.sizes, []int{24}) || !w.comments {
		t.Errorf("write options = %+v, want sizes [24] with comments", w)
	}
}
