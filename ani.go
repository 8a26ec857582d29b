package curconv

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"golang.org/x/image/riff"
	"golang.org/x/text/encoding/charmap"
)

// RIFF identifiers used by animated cursors.
var (
	aconForm = riff.FourCC{'A', 'C', 'O', 'N'}
	anihID   = riff.FourCC{'a', 'n', 'i', 'h'}
	rateID   = riff.FourCC{'r', 'a', 't', 'e'}
	seqID    = riff.FourCC{'s', 'e', 'q', ' '}
	framList = riff.FourCC{'f', 'r', 'a', 'm'}
	iconID   = riff.FourCC{'i', 'c', 'o', 'n'}
	infoList = riff.FourCC{'I', 'N', 'F', 'O'}
	inamID   = riff.FourCC{'I', 'N', 'A', 'M'}
	iartID   = riff.FourCC{'I', 'A', 'R', 'T'}
)

// aniHeaderSize is the size of the anih chunk.
const aniHeaderSize = 36

// anih flags.
const (
	aniFlagIcon     = 0x1 // frames are icon/cursor resources, not raw bitmaps
	aniFlagSequence = 0x2 // a seq chunk orders the frames
)

// jiffiesPerSecond converts ANI display rates to durations.
const jiffiesPerSecond = 60

// aniHeader is the anih chunk.
type aniHeader struct {
	Size        uint32
	Frames      uint32
	Steps       uint32
	Width       uint32
	Height      uint32
	BitCount    uint32
	Planes      uint32
	DisplayRate uint32 // default jiffies per step
	Flags       uint32
}

// aniChunks collects the chunks of an ACON form before frames are built.
type aniChunks struct {
	header *aniHeader
	icons  [][]byte
	seq    []uint32
	rates  []uint32
	title  string
	author string
}

func parseANI(blob []byte) (*Sequence, error) {
	c, err := readANIChunks(blob)
	if err != nil {
		return nil, err
	}
	h := c.header
	if h == nil {
		return nil, fmt.Errorf("%w: missing anih chunk", ErrMalformedContainer)
	}
	if h.Flags&aniFlagIcon == 0 {
		return nil, fmt.Errorf("%w: raw bitmap frames", ErrUnsupportedPixelFormat)
	}

	frames := int(h.Frames)
	steps := int(h.Steps)
	if steps == 0 {
		steps = frames
	}
	Logger().Debug("ani header",
		"frames", frames, "steps", steps, "rate", h.DisplayRate,
		"icons", len(c.icons), "seq", c.seq != nil, "rates", c.rates != nil)

	if len(c.icons) < frames {
		return nil, fmt.Errorf("%w: %d icon chunks for %d frames", ErrMalformedContainer, len(c.icons), frames)
	}
	if c.seq != nil && len(c.seq) < steps {
		return nil, fmt.Errorf("%w: seq has %d entries for %d steps", ErrMalformedContainer, len(c.seq), steps)
	}
	if c.rates != nil && len(c.rates) < steps {
		return nil, fmt.Errorf("%w: rate has %d entries for %d steps", ErrMalformedContainer, len(c.rates), steps)
	}
	if c.seq == nil && h.Flags&aniFlagSequence != 0 {
		Logger().Warn("ani sequence flag set without seq chunk, using frame order")
	}

	seq := &Sequence{Title: c.title, Author: c.author}
	decoded := make([]*Frame, frames)
	claimed := make([]bool, frames)

	for step := range steps {
		idx := step
		if c.seq != nil {
			idx = int(c.seq[step])
		}
		if idx >= frames {
			return nil, fmt.Errorf("%w: step %d references frame %d of %d", ErrMalformedContainer, step, idx, frames)
		}

		// Each icon is decoded once; later steps showing it get a copy.
		if decoded[idx] == nil {
			f, err := parseCURFrame(c.icons[idx])
			if err != nil {
				return nil, fmt.Errorf("icon %d: %w", idx, err)
			}
			if f == nil {
				return nil, fmt.Errorf("%w: icon %d has no images", ErrMalformedContainer, idx)
			}
			decoded[idx] = f
		}
		frame := decoded[idx]
		if claimed[idx] {
			frame = frame.Clone()
		}
		claimed[idx] = true

		rate := h.DisplayRate
		if c.rates != nil {
			rate = c.rates[step]
		}
		frame.Delay = jiffies(rate)
		seq.Frames = append(seq.Frames, frame)
	}
	return seq, nil
}

func readANIChunks(blob []byte) (*aniChunks, error) {
	formType, r, err := riff.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContainer, err)
	}
	if formType != aconForm {
		return nil, fmt.Errorf("%w: form type %q", ErrMalformedContainer, formType[:])
	}

	c := &aniChunks{}
	for {
		id, n, data, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedContainer, err)
		}

		switch id {
		case anihID:
			body, err := readChunk(data, n)
			if err != nil {
				return nil, err
			}
			if len(body) < aniHeaderSize {
				return nil, fmt.Errorf("%w: anih chunk is %d bytes", ErrMalformedContainer, len(body))
			}
			c.header = &aniHeader{}
			_ = binary.Read(bytes.NewReader(body), binary.LittleEndian, c.header)
		case rateID:
			if c.rates, err = readUint32s(data, n); err != nil {
				return nil, err
			}
		case seqID:
			if c.seq, err = readUint32s(data, n); err != nil {
				return nil, err
			}
		case riff.LIST:
			if err := c.readList(n, data); err != nil {
				return nil, err
			}
		default:
			Logger().Debug("ani skipping chunk", "id", string(id[:]), "size", n)
		}
	}
	return c, nil
}

func (c *aniChunks) readList(n uint32, data io.Reader) error {
	listType, lr, err := riff.NewListReader(n, data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedContainer, err)
	}
	if listType != framList && listType != infoList {
		Logger().Debug("ani skipping list", "type", string(listType[:]))
		return nil
	}

	for {
		id, n, data, err := lr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %s list: %v", ErrMalformedContainer, listType[:], err)
		}
		body, err := readChunk(data, n)
		if err != nil {
			return err
		}

		switch {
		case listType == framList && id == iconID:
			c.icons = append(c.icons, body)
		case listType == infoList && id == inamID:
			c.title = decodeInfoString(body)
		case listType == infoList && id == iartID:
			c.author = decodeInfoString(body)
		}
	}
}

// readChunk reads a whole chunk body and rejects short reads.
func readChunk(data io.Reader, n uint32) ([]byte, error) {
	body, err := io.ReadAll(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContainer, err)
	}
	if uint32(len(body)) != n {
		return nil, fmt.Errorf("%w: chunk declares %d bytes, has %d", ErrMalformedContainer, n, len(body))
	}
	return body, nil
}

func readUint32s(data io.Reader, n uint32) ([]uint32, error) {
	body, err := readChunk(data, n)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, len(body)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(body[i*4:])
	}
	return out, nil
}

// decodeInfoString converts a NUL-terminated Windows-1252 INFO string to UTF-8.
func decodeInfoString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	s, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

func jiffies(n uint32) time.Duration {
	return time.Duration(n) * time.Second / jiffiesPerSecond
}
