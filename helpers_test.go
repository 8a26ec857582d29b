package curconv

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"testing"
)

// solidImage returns a w x h straight-alpha image filled with one color.
func solidImage(w, h int, r, g, b, a uint8) *Image {
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, a
	}
	return &Image{Width: w, Height: h, Pix: pix, Nominal: max(w, h)}
}

// curEntry is one image of a test cursor resource.
type curEntry struct {
	img    *Image
	hx, hy uint16
	png    bool // store as PNG instead of a 32 bpp icon bitmap
}

// buildCUR serializes entries as a Windows CUR file.
func buildCUR(t *testing.T, entries ...curEntry) []byte {
	t.Helper()

	payloads := make([][]byte, len(entries))
	for i, e := range entries {
		if e.png {
			payloads[i] = encodePNG(t, e.img)
		} else {
			payloads[i] = encodeIconDIB(e.img)
		}
	}

	var buf bytes.Buffer
	write := func(v any) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatalf("binary.Write: %v", err)
		}
	}
	write(iconDir{Type: iconTypeCUR, Count: uint16(len(entries))})

	offset := iconDirSize + len(entries)*iconDirEntrySize
	for i, e := range entries {
		write(iconDirEntry{
			Width:    uint8(e.img.Width),
			Height:   uint8(e.img.Height),
			HotspotX: e.hx,
			HotspotY: e.hy,
			Size:     uint32(len(payloads[i])),
			Offset:   uint32(offset),
		})
		offset += len(payloads[i])
	}
	for _, p := range payloads {
		buf.Write(p)
	}
	return buf.Bytes()
}

// encodeIconDIB stores img as a bottom-up 32 bpp icon bitmap with an
// all-opaque AND mask.
func encodeIconDIB(img *Image) []byte {
	w, h := img.Width, img.Height
	hdr := make([]byte, 40)
	binary.LittleEndian.PutUint32(hdr[0:], 40)
	binary.LittleEndian.PutUint32(hdr[4:], uint32(w))
	binary.LittleEndian.PutUint32(hdr[8:], uint32(h*2))
	binary.LittleEndian.PutUint16(hdr[12:], 1)
	binary.LittleEndian.PutUint16(hdr[14:], 32)

	out := hdr
	for y := h - 1; y >= 0; y-- {
		for x := range w {
			p := img.Pix[(y*w+x)*4:]
			out = append(out, p[2], p[1], p[0], p[3])
		}
	}
	maskStride := (w + 31) / 32 * 4
	out = append(out, make([]byte, maskStride*h)...)
	return out
}

func encodePNG(t *testing.T, img *Image) []byte {
	t.Helper()

	nrgba := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	copy(nrgba.Pix, img.Pix)
	var buf bytes.Buffer
	if err := png.Encode(&buf, nrgba); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// riffChunk serializes one RIFF chunk, padded to an even length.
func riffChunk(id string, body []byte) []byte {
	out := make([]byte, 8, 8+len(body)+1)
	copy(out, id)
	binary.LittleEndian.PutUint32(out[4:], uint32(len(body)))
	out = append(out, body...)
	if len(body)%2 == 1 {
		out = append(out, 0)
	}
	return out
}

// riffList serializes a LIST chunk of the given type.
func riffList(listType string, chunks ...[]byte) []byte {
	body := []byte(listType)
	for _, c := range chunks {
		body = append(body, c...)
	}
	return riffChunk("LIST", body)
}

func uint32s(vs ...uint32) []byte {
	out := make([]byte, 4*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

// aniFile describes a test animated cursor.
type aniFile struct {
	icons  [][]byte // CUR blobs
	steps  uint32
	rate   uint32
	flags  uint32
	seq    []uint32
	rates  []uint32
	title  string
	author string
	noHead bool
}

// build serializes the animation as a RIFF ACON form.
func (a aniFile) build() []byte {
	var chunks [][]byte
	if !a.noHead {
		chunks = append(chunks, riffChunk("anih", uint32s(
			aniHeaderSize, uint32(len(a.icons)), a.steps, 0, 0, 0, 0, a.rate, a.flags,
		)))
	}
	if a.title != "" || a.author != "" {
		var info [][]byte
		if a.title != "" {
			info = append(info, riffChunk("INAM", append([]byte(a.title), 0)))
		}
		if a.author != "" {
			info = append(info, riffChunk("IART", append([]byte(a.author), 0)))
		}
		chunks = append(chunks, riffList("INFO", info...))
	}
	if a.rates != nil {
		chunks = append(chunks, riffChunk("rate", uint32s(a.rates...)))
	}
	if a.seq != nil {
		chunks = append(chunks, riffChunk("seq ", uint32s(a.seq...)))
	}
	icons := make([][]byte, len(a.icons))
	for i, ic := range a.icons {
		icons[i] = riffChunk("icon", ic)
	}
	chunks = append(chunks, riffList("fram", icons...))

	body := []byte("ACON")
	for _, c := range chunks {
		body = append(body, c...)
	}
	return riffChunk("RIFF", body)
}

// xcursorFile is a decoded view of writer output for assertions.
type xcursorFile struct {
	header  fileHeader
	toc     []tocEntry
	images  []imageChunkHeader
	pixels  [][]byte // BGRA premultiplied, parallel to images
	comment map[uint32]string
}

// readXcursorFile decodes raw Xcursor structures without going through
// the parser, so writer tests can check the layout byte for byte.
func readXcursorFile(t *testing.T, blob []byte) xcursorFile {
	t.Helper()

	var f xcursorFile
	if err := readStruct(blob, 0, &f.header); err != nil {
		t.Fatalf("file header: %v", err)
	}
	f.comment = map[uint32]string{}
	for i := range uint64(f.header.TOCLength) {
		var e tocEntry
		if err := readStruct(blob, fileHeaderSize+i*tocEntrySize, &e); err != nil {
			t.Fatalf("toc entry %d: %v", i, err)
		}
		f.toc = append(f.toc, e)

		switch e.Type {
		case imageChunkType:
			var h imageChunkHeader
			if err := readStruct(blob, uint64(e.Position), &h); err != nil {
				t.Fatalf("image chunk %d: %v", i, err)
			}
			start := int(e.Position) + imageChunkHeaderSize
			end := start + int(h.Width*h.Height*4)
			if end > len(blob) {
				t.Fatalf("image chunk %d pixels end at %d, file has %d bytes", i, end, len(blob))
			}
			f.images = append(f.images, h)
			f.pixels = append(f.pixels, blob[start:end])
		case commentChunkType:
			var h commentChunkHeader
			if err := readStruct(blob, uint64(e.Position), &h); err != nil {
				t.Fatalf("comment chunk %d: %v", i, err)
			}
			start := int(e.Position) + commentChunkHeaderSize
			f.comment[h.Subtype] = string(blob[start : start+int(h.Length)])
		default:
			t.Fatalf("toc entry %d has unexpected type %#x", i, e.Type)
		}
	}
	return f
}
