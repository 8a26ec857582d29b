package curconv

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"time"

	intImage "github.com/gogpu/curconv/internal/image"
)

// Xcursor file layout. All fields are little-endian uint32.
const (
	xcursorMagic   = 0x72756358 // "Xcur"
	xcursorVersion = 0x00010000

	fileHeaderSize = 16 // magic, header size, version, toc length
	tocEntrySize   = 12 // type, subtype, position

	imageChunkType       = 0xfffd0002
	imageChunkHeaderSize = 36
	imageChunkVersion    = 1

	commentChunkType       = 0xfffe0001
	commentChunkHeaderSize = 20
	commentChunkVersion    = 1

	// maxImageDimension is the largest width or height Xcursor allows.
	maxImageDimension = 0x7fff
)

// Comment chunk subtypes.
const (
	commentCopyright = 1
	commentOther     = 3
)

type fileHeader struct {
	Magic      uint32
	HeaderSize uint32
	Version    uint32
	TOCLength  uint32
}

type tocEntry struct {
	Type     uint32
	Subtype  uint32
	Position uint32
}

type imageChunkHeader struct {
	HeaderSize uint32
	Type       uint32
	Nominal    uint32
	Version    uint32
	Width      uint32
	Height     uint32
	HotspotX   uint32
	HotspotY   uint32
	DelayMS    uint32
}

type commentChunkHeader struct {
	HeaderSize uint32
	Type       uint32
	Subtype    uint32
	Version    uint32
	Length     uint32
}

// sizeGroup holds the image chunks of one nominal size in file order.
type sizeGroup struct {
	nominal uint32
	images  []*Image
	delays  []time.Duration
}

// parseXcursor decodes an Xcursor file. The k-th image chunk of each
// nominal size belongs to frame k.
func parseXcursor(blob []byte) (*Sequence, error) {
	var hdr fileHeader
	if err := readStruct(blob, 0, &hdr); err != nil {
		return nil, err
	}
	if hdr.HeaderSize < fileHeaderSize {
		return nil, fmt.Errorf("%w: file header size %d", ErrMalformedContainer, hdr.HeaderSize)
	}

	tocStart := uint64(hdr.HeaderSize)
	if tocStart+uint64(hdr.TOCLength)*tocEntrySize > uint64(len(blob)) {
		return nil, fmt.Errorf("%w: table of contents with %d entries is truncated", ErrMalformedContainer, hdr.TOCLength)
	}
	Logger().Debug("xcursor header", "version", hdr.Version, "toc", hdr.TOCLength)

	seq := &Sequence{}
	var groups []*sizeGroup
	groupOf := map[uint32]*sizeGroup{}

	for i := range uint64(hdr.TOCLength) {
		var e tocEntry
		if err := readStruct(blob, tocStart+i*tocEntrySize, &e); err != nil {
			return nil, err
		}

		switch e.Type {
		case imageChunkType:
			img, delay, err := readImageChunk(blob, e)
			if err != nil {
				return nil, fmt.Errorf("toc entry %d: %w", i, err)
			}
			g := groupOf[e.Subtype]
			if g == nil {
				g = &sizeGroup{nominal: e.Subtype}
				groupOf[e.Subtype] = g
				groups = append(groups, g)
			}
			g.images = append(g.images, img)
			g.delays = append(g.delays, delay)
		case commentChunkType:
			text, err := readCommentChunk(blob, e)
			if err != nil {
				return nil, fmt.Errorf("toc entry %d: %w", i, err)
			}
			switch e.Subtype {
			case commentCopyright:
				seq.Author = text
			case commentOther:
				seq.Title = text
			}
		default:
			Logger().Warn("xcursor skipping unknown chunk", "type", fmt.Sprintf("%#x", e.Type))
		}
	}

	frames := 0
	for _, g := range groups {
		frames = max(frames, len(g.images))
	}
	for k := range frames {
		f := &Frame{}
		for _, g := range groups {
			if k >= len(g.images) {
				continue
			}
			if len(f.Images) == 0 {
				f.Delay = g.delays[k]
			}
			f.Images = append(f.Images, g.images[k])
		}
		seq.Frames = append(seq.Frames, f)
	}
	return seq, nil
}

func readImageChunk(blob []byte, e tocEntry) (*Image, time.Duration, error) {
	var h imageChunkHeader
	pos := uint64(e.Position)
	if err := readStruct(blob, pos, &h); err != nil {
		return nil, 0, err
	}
	switch {
	case h.HeaderSize != imageChunkHeaderSize:
		return nil, 0, fmt.Errorf("%w: image header size %d", ErrMalformedContainer, h.HeaderSize)
	case h.Type != e.Type || h.Nominal != e.Subtype:
		return nil, 0, fmt.Errorf("%w: image chunk disagrees with its toc entry", ErrMalformedContainer)
	case h.Version != imageChunkVersion:
		return nil, 0, fmt.Errorf("%w: image chunk version %d", ErrMalformedContainer, h.Version)
	case h.Width == 0 || h.Height == 0 || h.Width > maxImageDimension || h.Height > maxImageDimension:
		return nil, 0, fmt.Errorf("%w: image size %dx%d", ErrMalformedContainer, h.Width, h.Height)
	case h.HotspotX >= h.Width || h.HotspotY >= h.Height:
		return nil, 0, fmt.Errorf("%w: hotspot (%d,%d) outside %dx%d image",
			ErrMalformedContainer, h.HotspotX, h.HotspotY, h.Width, h.Height)
	}

	w, ht := int(h.Width), int(h.Height)
	start := pos + imageChunkHeaderSize
	end := start + uint64(w*ht*4)
	if end > uint64(len(blob)) {
		return nil, 0, fmt.Errorf("%w: pixel data of %dx%d image is truncated", ErrMalformedContainer, w, ht)
	}

	src, err := intImage.FromRaw(blob[start:end], w, ht, intImage.FormatBGRAPremul, w*4)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedContainer, err)
	}
	straight, err := src.Convert(intImage.FormatRGBA8)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedContainer, err)
	}

	img := newImage(straight, image.Pt(int(h.HotspotX), int(h.HotspotY)))
	img.Nominal = int(h.Nominal)
	return img, time.Duration(h.DelayMS) * time.Millisecond, nil
}

func readCommentChunk(blob []byte, e tocEntry) (string, error) {
	var h commentChunkHeader
	pos := uint64(e.Position)
	if err := readStruct(blob, pos, &h); err != nil {
		return "", err
	}
	if h.HeaderSize != commentChunkHeaderSize || h.Type != e.Type {
		return "", fmt.Errorf("%w: bad comment chunk header", ErrMalformedContainer)
	}
	start := pos + commentChunkHeaderSize
	end := start + uint64(h.Length)
	if end > uint64(len(blob)) {
		return "", fmt.Errorf("%w: comment of %d bytes is truncated", ErrMalformedContainer, h.Length)
	}
	return string(blob[start:end]), nil
}

// readStruct decodes a fixed-size little-endian struct at off.
func readStruct(blob []byte, off uint64, v any) error {
	n := uint64(binary.Size(v))
	if off+n > uint64(len(blob)) {
		return fmt.Errorf("%w: %d byte header at offset %d is truncated", ErrMalformedContainer, n, off)
	}
	return binary.Read(bytes.NewReader(blob[off:off+n]), binary.LittleEndian, v)
}
