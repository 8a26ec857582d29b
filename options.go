package curconv

// defaultSizes is the nominal size table used when no sizes are requested.
var defaultSizes = [...]int{22, 24, 28, 32, 36, 40, 48, 56, 64, 72, 80, 88, 96}

// DefaultSizes returns a copy of the default nominal size table.
func DefaultSizes() []int {
	s := defaultSizes
	return s[:]
}

// WriteOption configures WriteXcursor.
//
// Example:
//
//	// Default size table
//	out, err := curconv.WriteXcursor(seq)
//
//	// Only 24 and 48 pixel variants, with ANI title/author as comments
//	out, err := curconv.WriteXcursor(seq, curconv.WithSizes(24, 48), curconv.WithComments(true))
type WriteOption func(*writeOptions)

// writeOptions holds optional configuration for WriteXcursor.
type writeOptions struct {
	sizes    []int
	comments bool
}

// defaultWriteOptions returns the default writer options.
func defaultWriteOptions() writeOptions {
	return writeOptions{
		sizes: DefaultSizes(),
	}
}

// WithSizes sets the nominal sizes to synthesize for every frame.
// Duplicates are dropped, keeping the first occurrence. Calling it with
// no sizes selects the default table.
func WithSizes(sizes ...int) WriteOption {
	if len(sizes) == 0 {
		return func(o *writeOptions) { o.sizes = DefaultSizes() }
	}
	own := append([]int(nil), sizes...)
	return func(o *writeOptions) {
		o.sizes = append([]int(nil), own...)
	}
}

// WithComments controls whether the sequence title and author are written
// as Xcursor comment chunks after the image chunks.
func WithComments(enabled bool) WriteOption {
	return func(o *writeOptions) {
		o.comments = enabled
	}
}

// ConvertOption configures Convert.
type ConvertOption func(*convertOptions)

// convertOptions holds optional configuration for Convert.
type convertOptions struct {
	scale float64
	write []WriteOption
}

// WithScale rescales the decoded sequence by factor before writing.
// A zero factor leaves the sequence unscaled.
func WithScale(factor float64) ConvertOption {
	return func(o *convertOptions) {
		o.scale = factor
	}
}

// WithWriteOptions passes options through to WriteXcursor.
func WithWriteOptions(opts ...WriteOption) ConvertOption {
	return func(o *convertOptions) {
		o.write = append(o.write, opts...)
	}
}
