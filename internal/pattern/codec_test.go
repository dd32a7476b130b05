package pattern

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/klauspost/compress/zlib"
)

func testEncodedChunk(t *testing.T) (*EncodedChunk, *ChunkPalette) {
	t.Helper()
	pal := BuildChunkPalette([]uint8{1, 2}, testColors(), testBlockPalette(t))
	data := make([]byte, ChunkVolume*pal.BitWidth()/8)
	for i := range data {
		data[i] = byte(i * 31)
	}
	return &EncodedChunk{Data: data, Counts: []int32{100, 50, ChunkVolume - 150}}, pal
}

func TestEncodePattern_RoundTrip(t *testing.T) {
	ec, pal := testEncodedChunk(t)

	raw, err := EncodePattern(ec, pal)
	if err != nil {
		t.Fatalf("EncodePattern: %v", err)
	}
	doc, err := DecodePattern(raw)
	if err != nil {
		t.Fatalf("DecodePattern: %v", err)
	}

	want := BuildDocument(ec, pal)
	if !reflect.DeepEqual(*doc, want) {
		t.Fatalf("round trip:\ngot  %+v\nwant %+v", *doc, want)
	}
}

func TestBuildDocument(t *testing.T) {
	ec, pal := testEncodedChunk(t)
	doc := BuildDocument(ec, pal)

	if !bytes.Equal(doc.ChiseledData.Data, ec.Data) {
		t.Fatalf("data not carried through")
	}
	if len(doc.ChiseledData.Palette) != pal.Len() {
		t.Fatalf("palette entries: got %d want %d", len(doc.ChiseledData.Palette), pal.Len())
	}
	last := doc.ChiseledData.Palette[pal.Len()-1]
	if last.State != AirState {
		t.Fatalf("last palette entry: got %q want air", last.State)
	}

	// The primary state is the first palette entry, not the modal block.
	if doc.Statistics.PrimaryState != doc.ChiseledData.Palette[0] {
		t.Fatalf("primary state: got %+v", doc.Statistics.PrimaryState)
	}
	for i, bs := range doc.Statistics.BlockStates {
		if bs.BlockInformation != doc.ChiseledData.Palette[i] {
			t.Fatalf("block state %d: got %+v", i, bs.BlockInformation)
		}
		if bs.Count != ec.Counts[i] {
			t.Fatalf("block state %d count: got %d want %d", i, bs.Count, ec.Counts[i])
		}
	}
}

func TestEncodePattern_OuterLayerIsZlib(t *testing.T) {
	ec, pal := testEncodedChunk(t)
	raw, err := EncodePattern(ec, pal)
	if err != nil {
		t.Fatalf("EncodePattern: %v", err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("output is not a zlib stream: %v", err)
	}
	zr.Close()
}

func TestDecodePattern_RejectsGarbage(t *testing.T) {
	if _, err := DecodePattern([]byte("not a pattern")); err == nil {
		t.Fatalf("DecodePattern: expected error")
	}
}
