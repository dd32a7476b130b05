// Package magica reads MagicaVoxel .vox files into plain voxel lists.
package magica

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// MaxSide bounds the model coordinate space on every axis.
const MaxSide = 256

type Color struct {
	R, G, B, A uint8
}

// Voxel is one filled cell. ColorIndex refers to File.Palette.
type Voxel struct {
	X, Y, Z    int
	ColorIndex uint8
}

type Model struct {
	SizeX, SizeY, SizeZ int
	Voxels              []Voxel
}

// File holds every model of a .vox file plus the shared 256-entry palette.
// Palette[i] is the color behind voxel color index i; entry 0 is unused.
type File struct {
	Models  []Model
	Palette [256]Color
}

func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes the RIFF-style .vox container: a "VOX " header followed by a
// MAIN chunk whose children carry SIZE/XYZI pairs (one per model) and an
// optional RGBA palette. Unknown children (scene graph, materials) are
// skipped by size.
func Parse(raw []byte) (*File, error) {
	r := bytes.NewReader(raw)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("vox header: %w", err)
	}
	if string(magic[:]) != "VOX " {
		return nil, fmt.Errorf("not a vox file (magic %q)", magic[:])
	}
	if _, err := readInt32(r); err != nil { // format version
		return nil, fmt.Errorf("vox header: %w", err)
	}

	id, contentLen, _, err := readChunkHeader(r)
	if err != nil {
		return nil, err
	}
	if id != "MAIN" {
		return nil, fmt.Errorf("expected MAIN chunk, got %q", id)
	}
	if _, err := r.Seek(int64(contentLen), io.SeekCurrent); err != nil {
		return nil, fmt.Errorf("MAIN chunk: %w", err)
	}

	f := &File{Palette: defaultPalette}
	var pending *Model
	for r.Len() > 0 {
		id, contentLen, childrenLen, err := readChunkHeader(r)
		if err != nil {
			return nil, err
		}
		switch id {
		case "SIZE":
			m, err := readSize(r)
			if err != nil {
				return nil, err
			}
			pending = m
		case "XYZI":
			if pending == nil {
				return nil, fmt.Errorf("XYZI chunk without preceding SIZE")
			}
			if err := readVoxels(r, pending); err != nil {
				return nil, err
			}
			f.Models = append(f.Models, *pending)
			pending = nil
		case "RGBA":
			if err := readPalette(r, &f.Palette); err != nil {
				return nil, err
			}
		default:
			if _, err := r.Seek(int64(contentLen), io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("%s chunk: %w", id, err)
			}
		}
		if _, err := r.Seek(int64(childrenLen), io.SeekCurrent); err != nil {
			return nil, fmt.Errorf("%s chunk: %w", id, err)
		}
	}

	if len(f.Models) == 0 {
		return nil, fmt.Errorf("file contains no models")
	}
	return f, nil
}

func readChunkHeader(r *bytes.Reader) (id string, contentLen, childrenLen int32, err error) {
	var tag [4]byte
	if _, err = io.ReadFull(r, tag[:]); err != nil {
		return "", 0, 0, fmt.Errorf("chunk id: %w", err)
	}
	id = string(tag[:])
	if contentLen, err = readInt32(r); err != nil {
		return "", 0, 0, fmt.Errorf("%s chunk: %w", id, err)
	}
	if childrenLen, err = readInt32(r); err != nil {
		return "", 0, 0, fmt.Errorf("%s chunk: %w", id, err)
	}
	if contentLen < 0 || childrenLen < 0 {
		return "", 0, 0, fmt.Errorf("%s chunk: negative length", id)
	}
	return id, contentLen, childrenLen, nil
}

func readSize(r *bytes.Reader) (*Model, error) {
	var m Model
	for _, dst := range []*int{&m.SizeX, &m.SizeY, &m.SizeZ} {
		v, err := readInt32(r)
		if err != nil {
			return nil, fmt.Errorf("SIZE chunk: %w", err)
		}
		*dst = int(v)
	}
	if m.SizeX < 1 || m.SizeY < 1 || m.SizeZ < 1 ||
		m.SizeX > MaxSide || m.SizeY > MaxSide || m.SizeZ > MaxSide {
		return nil, fmt.Errorf("model size %dx%dx%d outside supported 1..%d range",
			m.SizeX, m.SizeY, m.SizeZ, MaxSide)
	}
	return &m, nil
}

func readVoxels(r *bytes.Reader, m *Model) error {
	n, err := readInt32(r)
	if err != nil {
		return fmt.Errorf("XYZI chunk: %w", err)
	}
	if n < 0 {
		return fmt.Errorf("XYZI chunk: negative voxel count")
	}
	m.Voxels = make([]Voxel, 0, n)
	var rec [4]byte
	for i := int32(0); i < n; i++ {
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			return fmt.Errorf("XYZI chunk: voxel %d: %w", i, err)
		}
		m.Voxels = append(m.Voxels, Voxel{
			X:          int(rec[0]),
			Y:          int(rec[1]),
			Z:          int(rec[2]),
			ColorIndex: rec[3],
		})
	}
	return nil
}

// readPalette shifts the stored colors up by one: the RGBA chunk stores the
// color for voxel index i+1 at entry i.
func readPalette(r *bytes.Reader, pal *[256]Color) error {
	var raw [256 * 4]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return fmt.Errorf("RGBA chunk: %w", err)
	}
	for i := 0; i < 255; i++ {
		pal[i+1] = Color{R: raw[i*4], G: raw[i*4+1], B: raw[i*4+2], A: raw[i*4+3]}
	}
	pal[0] = Color{}
	return nil
}

func readInt32(r *bytes.Reader) (int32, error) {
	var v int32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, err
	}
	return v, nil
}
