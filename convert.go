package curconv

// Convert parses blob, optionally rescales it, and writes an Xcursor file.
func Convert(blob []byte, opts ...ConvertOption) ([]byte, error) {
	var o convertOptions
	for _, opt := range opts {
		opt(&o)
	}

	seq, err := Parse(blob)
	if err != nil {
		return nil, err
	}
	if o.scale != 0 && o.scale != 1 {
		if err := ScaleSequence(seq, o.scale); err != nil {
			return nil, err
		}
	}
	return WriteXcursor(seq, o.write...)
}
