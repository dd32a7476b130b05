package pattern

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"
)

// The on-disk pattern format nests several containers, all of them mandated
// by the consuming mod: an inner NBT compound with the chunk data, LZ4 frame
// compression, an outer NBT compound, base64, a JSON wrapper, base64 again
// and finally zlib. EncodePattern and DecodePattern are exact inverses.

// Document is the inner tag tree a pattern file carries.
type Document struct {
	ChiseledData ChiselData `nbt:"chiseledData"`
	Statistics   Statistics `nbt:"statistics"`
}

type ChiselData struct {
	Data    []byte         `nbt:"data"`
	Palette []PaletteEntry `nbt:"palette"`
}

// PaletteEntry wraps one block state JSON string, e.g. {"Name":"minecraft:stone"}.
type PaletteEntry struct {
	State string `nbt:"state"`
}

type Statistics struct {
	PrimaryState PaletteEntry `nbt:"primaryState"`
	BlockStates  []BlockState `nbt:"blockStates"`
}

type BlockState struct {
	BlockInformation PaletteEntry `nbt:"block_information"`
	Count            int32        `nbt:"count"`
}

type outerContainer struct {
	Version int32          `nbt:"version"`
	Data    compressedData `nbt:"data"`
}

type compressedData struct {
	Data       []byte `nbt:"data"`
	Compressed byte   `nbt:"compressed"`
}

type patternJSON struct {
	ChiselData string `json:"chiselData"`
	Version    string `json:"version"`
}

const patternVersion = "1.0"

// BuildDocument assembles the inner document for one encoded chunk. The
// primary state is the first shared palette entry, matching the format's
// established files, not the chunk's most frequent block.
func BuildDocument(ec *EncodedChunk, pal *ChunkPalette) Document {
	states := pal.States()
	palette := make([]PaletteEntry, len(states))
	for i, s := range states {
		palette[i] = PaletteEntry{State: s}
	}

	blockStates := make([]BlockState, len(palette))
	for i := range palette {
		blockStates[i] = BlockState{BlockInformation: palette[i], Count: ec.Counts[i]}
	}

	return Document{
		ChiseledData: ChiselData{Data: ec.Data, Palette: palette},
		Statistics:   Statistics{PrimaryState: palette[0], BlockStates: blockStates},
	}
}

// EncodePattern serializes one encoded chunk into the final pattern file
// bytes. Any layer failing aborts the chunk; nothing partial is returned.
func EncodePattern(ec *EncodedChunk, pal *ChunkPalette) ([]byte, error) {
	return encodeDocument(BuildDocument(ec, pal))
}

func encodeDocument(doc Document) ([]byte, error) {
	inner, err := nbt.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("inner nbt: %w", err)
	}

	var framed bytes.Buffer
	lw := lz4.NewWriter(&framed)
	if _, err := lw.Write(inner); err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	if err := lw.Close(); err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}

	outer, err := nbt.Marshal(outerContainer{
		Version: 0,
		Data:    compressedData{Data: framed.Bytes(), Compressed: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("outer nbt: %w", err)
	}

	js, err := json.Marshal(patternJSON{
		ChiselData: base64.StdEncoding.EncodeToString(outer),
		Version:    patternVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("pattern json: %w", err)
	}

	var out bytes.Buffer
	zw, err := zlib.NewWriterLevel(&out, 6)
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	if _, err := zw.Write([]byte(base64.StdEncoding.EncodeToString(js))); err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	return out.Bytes(), nil
}

// DecodePattern reverses EncodePattern back to the inner document.
func DecodePattern(raw []byte) (*Document, error) {
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	text, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	if err := zr.Close(); err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}

	js, err := base64.StdEncoding.DecodeString(string(text))
	if err != nil {
		return nil, fmt.Errorf("outer base64: %w", err)
	}
	var pj patternJSON
	if err := json.Unmarshal(js, &pj); err != nil {
		return nil, fmt.Errorf("pattern json: %w", err)
	}
	if pj.Version != patternVersion {
		return nil, fmt.Errorf("unsupported pattern version %q", pj.Version)
	}

	outer, err := base64.StdEncoding.DecodeString(pj.ChiselData)
	if err != nil {
		return nil, fmt.Errorf("inner base64: %w", err)
	}
	var container outerContainer
	if err := nbt.Unmarshal(outer, &container); err != nil {
		return nil, fmt.Errorf("outer nbt: %w", err)
	}
	if container.Data.Compressed != 1 {
		return nil, fmt.Errorf("expected compressed payload, got flag %d", container.Data.Compressed)
	}

	inner, err := io.ReadAll(lz4.NewReader(bytes.NewReader(container.Data.Data)))
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	var doc Document
	if err := nbt.Unmarshal(inner, &doc); err != nil {
		return nil, fmt.Errorf("inner nbt: %w", err)
	}
	return &doc, nil
}
