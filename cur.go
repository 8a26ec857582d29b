package curconv

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/curconv/internal/dib"
	intImage "github.com/gogpu/curconv/internal/image"
)

// Icon directory layout shared by ICO and CUR files.
const (
	iconDirSize      = 6
	iconDirEntrySize = 16

	iconTypeICO = 1
	iconTypeCUR = 2
)

// iconDir is the fixed directory header.
type iconDir struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

// iconDirEntry describes one image of a cursor resource. For cursors the
// planes and bit count fields of the ICO layout carry the hotspot.
type iconDirEntry struct {
	Width      uint8 // 0 means 256
	Height     uint8 // 0 means 256
	ColorCount uint8
	Reserved   uint8
	HotspotX   uint16
	HotspotY   uint16
	Size       uint32
	Offset     uint32
}

// payloadKind tells how an entry's bytes are encoded. It is decided once
// per entry from the payload signature.
type payloadKind uint8

const (
	payloadUnknown payloadKind = iota
	payloadDIB
	payloadPNG
)

func (k payloadKind) String() string {
	switch k {
	case payloadDIB:
		return "dib"
	case payloadPNG:
		return "png"
	default:
		return "unknown"
	}
}

func classifyPayload(b []byte) payloadKind {
	switch {
	case dib.IsDIB(b):
		return payloadDIB
	case intImage.IsPNG(b):
		return payloadPNG
	default:
		return payloadUnknown
	}
}

func parseCUR(blob []byte) (*Sequence, error) {
	frame, err := parseCURFrame(blob)
	if err != nil {
		return nil, err
	}
	seq := &Sequence{}
	if frame != nil {
		seq.Frames = []*Frame{frame}
	}
	return seq, nil
}

// parseCURFrame decodes every directory entry of a CUR blob into one frame.
// A directory without entries yields a nil frame and no error.
func parseCURFrame(blob []byte) (*Frame, error) {
	if len(blob) < iconDirSize {
		return nil, fmt.Errorf("%w: %d byte directory header", ErrMalformedContainer, len(blob))
	}

	var dir iconDir
	r := bytes.NewReader(blob)
	if err := binary.Read(r, binary.LittleEndian, &dir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContainer, err)
	}
	if dir.Reserved != 0 {
		return nil, fmt.Errorf("%w: reserved field is %d", ErrMalformedContainer, dir.Reserved)
	}
	if dir.Type != iconTypeCUR {
		return nil, fmt.Errorf("%w: directory type %d is not a cursor", ErrMalformedContainer, dir.Type)
	}

	entries := make([]iconDirEntry, dir.Count)
	if err := binary.Read(r, binary.LittleEndian, entries); err != nil {
		return nil, fmt.Errorf("%w: directory of %d entries is truncated", ErrMalformedContainer, dir.Count)
	}
	Logger().Debug("cur directory", "entries", dir.Count, "bytes", len(blob))

	if len(entries) == 0 {
		return nil, nil
	}

	frame := &Frame{Images: make([]*Image, 0, len(entries))}
	for i, e := range entries {
		img, err := decodeEntry(blob, e)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		frame.Images = append(frame.Images, img)
	}
	return frame, nil
}

func decodeEntry(blob []byte, e iconDirEntry) (*Image, error) {
	start := uint64(e.Offset)
	end := start + uint64(e.Size)
	if end > uint64(len(blob)) {
		return nil, fmt.Errorf("%w: payload [%d, %d) outside %d byte file",
			ErrMalformedContainer, start, end, len(blob))
	}
	payload := blob[start:end]

	kind := classifyPayload(payload)
	Logger().Debug("cur entry",
		"width", dirDimension(e.Width), "height", dirDimension(e.Height),
		"colors", e.ColorCount, "payload", kind, "size", e.Size)

	var (
		buf *intImage.ImageBuf
		err error
	)
	switch kind {
	case payloadDIB:
		buf, err = dib.DecodeIcon(payload)
		if err != nil {
			return nil, dibError(err)
		}
	case payloadPNG:
		buf, err = intImage.Decode(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedPixelFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: unrecognized payload signature % x",
			ErrUnsupportedPixelFormat, payload[:min(len(payload), 8)])
	}

	hotspot := image.Pt(int(e.HotspotX), int(e.HotspotY))
	img := newImage(buf, hotspot)
	if img.Hotspot != hotspot {
		Logger().Warn("cur hotspot outside image, clamped",
			"hotspot", hotspot, "width", img.Width, "height", img.Height)
	}
	return img, nil
}

// dibError maps bitmap decode failures onto the conversion error taxonomy.
func dibError(err error) error {
	if errors.Is(err, dib.ErrUnsupported) {
		return fmt.Errorf("%w: %v", ErrUnsupportedPixelFormat, err)
	}
	return fmt.Errorf("%w: %v", ErrMalformedContainer, err)
}

func dirDimension(v uint8) int {
	if v == 0 {
		return 256
	}
	return int(v)
}
