package curconv

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	intImage "github.com/gogpu/curconv/internal/image"
)

// chunk is one serialized Xcursor chunk waiting for its TOC entry.
type chunk struct {
	typ     uint32
	subtype uint32
	data    []byte
}

// WriteXcursor serializes seq as an Xcursor file.
//
// For every frame, in order, the largest image is synthesized at each
// requested nominal size (see Synthesize) and stored as one image chunk.
// Chunks appear frame by frame, sizes in request order. An empty sequence
// produces a header-only file.
//
// Failures wrap ErrEncodingFailure. The output depends only on seq and the
// options, so repeated calls produce identical bytes.
func WriteXcursor(seq *Sequence, opts ...WriteOption) ([]byte, error) {
	o := defaultWriteOptions()
	for _, opt := range opts {
		opt(&o)
	}

	sizes, err := uniqueSizes(o.sizes)
	if err != nil {
		return nil, err
	}

	chunks := make([]chunk, 0, len(seq.Frames)*len(sizes))
	for i, f := range seq.Frames {
		base := f.base()
		if base == nil {
			return nil, fmt.Errorf("%w: frame %d has no images", ErrEncodingFailure, i)
		}
		delay := delayMillis(f)
		for _, size := range sizes {
			variant, err := Synthesize(base, size)
			if err != nil {
				return nil, fmt.Errorf("frame %d size %d: %w", i, size, err)
			}
			c, err := encodeImageChunk(variant, delay)
			if err != nil {
				return nil, fmt.Errorf("frame %d size %d: %w", i, size, err)
			}
			chunks = append(chunks, c)
		}
	}

	if o.comments {
		if seq.Author != "" {
			chunks = append(chunks, encodeCommentChunk(commentCopyright, seq.Author))
		}
		if seq.Title != "" {
			chunks = append(chunks, encodeCommentChunk(commentOther, seq.Title))
		}
	}

	Logger().Debug("xcursor layout", "frames", len(seq.Frames), "sizes", len(sizes), "chunks", len(chunks))
	return assemble(chunks)
}

// assemble lays out header, table of contents and chunk bodies.
// Each TOC position is the running total of everything before the chunk.
func assemble(chunks []chunk) ([]byte, error) {
	offset := uint64(fileHeaderSize + len(chunks)*tocEntrySize)
	toc := make([]tocEntry, len(chunks))
	for i, c := range chunks {
		if offset > math.MaxUint32 {
			return nil, fmt.Errorf("%w: file exceeds 4 GiB", ErrEncodingFailure)
		}
		toc[i] = tocEntry{Type: c.typ, Subtype: c.subtype, Position: uint32(offset)}
		offset += uint64(len(c.data))
	}

	var buf bytes.Buffer
	buf.Grow(int(offset))
	//nolint:gosec // G115: chunk count is bounded by frames times sizes
	_ = binary.Write(&buf, binary.LittleEndian, fileHeader{
		Magic:      xcursorMagic,
		HeaderSize: fileHeaderSize,
		Version:    xcursorVersion,
		TOCLength:  uint32(len(chunks)),
	})
	_ = binary.Write(&buf, binary.LittleEndian, toc)
	for _, c := range chunks {
		buf.Write(c.data)
	}
	return buf.Bytes(), nil
}

// encodeImageChunk stores a synthesized (premultiplied RGBA) image as an
// image chunk with premultiplied BGRA pixels.
func encodeImageChunk(img *Image, delayMS uint32) (chunk, error) {
	if img.Width <= 0 || img.Height <= 0 || img.Width > maxImageDimension || img.Height > maxImageDimension {
		return chunk{}, fmt.Errorf("%w: image size %dx%d", ErrEncodingFailure, img.Width, img.Height)
	}
	src, err := intImage.FromRaw(img.Pix, img.Width, img.Height, intImage.FormatRGBAPremul, img.Width*4)
	if err != nil {
		return chunk{}, fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}
	bgra, err := src.Convert(intImage.FormatBGRAPremul)
	if err != nil {
		return chunk{}, fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}

	//nolint:gosec // G115: dimensions, hotspot and nominal size are checked against maxImageDimension
	h := imageChunkHeader{
		HeaderSize: imageChunkHeaderSize,
		Type:       imageChunkType,
		Nominal:    uint32(img.Nominal),
		Version:    imageChunkVersion,
		Width:      uint32(img.Width),
		Height:     uint32(img.Height),
		HotspotX:   uint32(img.Hotspot.X),
		HotspotY:   uint32(img.Hotspot.Y),
		DelayMS:    delayMS,
	}

	var buf bytes.Buffer
	buf.Grow(imageChunkHeaderSize + len(bgra.Data()))
	_ = binary.Write(&buf, binary.LittleEndian, h)
	buf.Write(bgra.Data())
	return chunk{typ: imageChunkType, subtype: h.Nominal, data: buf.Bytes()}, nil
}

func encodeCommentChunk(subtype uint32, text string) chunk {
	var buf bytes.Buffer
	//nolint:gosec // G115: comment text comes from a RIFF chunk or an earlier Xcursor comment
	_ = binary.Write(&buf, binary.LittleEndian, commentChunkHeader{
		HeaderSize: commentChunkHeaderSize,
		Type:       commentChunkType,
		Subtype:    subtype,
		Version:    commentChunkVersion,
		Length:     uint32(len(text)),
	})
	buf.WriteString(text)
	return chunk{typ: commentChunkType, subtype: subtype, data: buf.Bytes()}
}

// uniqueSizes validates sizes and drops duplicates, keeping first occurrences.
func uniqueSizes(sizes []int) ([]int, error) {
	seen := make(map[int]bool, len(sizes))
	out := make([]int, 0, len(sizes))
	for _, s := range sizes {
		if s <= 0 || s > maxImageDimension {
			return nil, fmt.Errorf("%w: nominal size %d", ErrEncodingFailure, s)
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

// delayMillis truncates the frame delay to whole milliseconds.
func delayMillis(f *Frame) uint32 {
	ms := f.Delay.Milliseconds()
	if ms <= 0 {
		return 0
	}
	if ms > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(ms)
}
