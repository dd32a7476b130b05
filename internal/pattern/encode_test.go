package pattern

import (
	"testing"

	"voxpattern.ai/internal/blocks"
	"voxpattern.ai/internal/magica"
)

func testBlockPalette(t *testing.T) *blocks.Palette {
	t.Helper()
	p, err := blocks.Parse([]byte(`{
		"#ff0000": "minecraft:red_concrete",
		"#00ff00": "minecraft:lime_concrete",
		"#0000ff": "minecraft:blue_concrete"
	}`))
	if err != nil {
		t.Fatalf("blocks.Parse: %v", err)
	}
	return p
}

func testColors() [256]magica.Color {
	var colors [256]magica.Color
	colors[1] = magica.Color{R: 255, A: 255} // red
	colors[2] = magica.Color{G: 255, A: 255} // lime
	colors[3] = magica.Color{B: 255, A: 255} // blue
	return colors
}

// bitAt reads the packed palette index at linear position i.
func bitAt(data []byte, i, width int) uint8 {
	var v uint
	for b := 0; b < width; b++ {
		bit := i*width + b
		if data[bit/8]>>(uint(bit)%8)&1 == 1 {
			v |= 1 << b
		}
	}
	return uint8(v)
}

func TestChunkPalette_BitWidth(t *testing.T) {
	bp := testBlockPalette(t)
	cases := []struct {
		used  []uint8
		len   int
		width int
	}{
		{[]uint8{1}, 2, 1},
		{[]uint8{1, 2}, 3, 2},
		{[]uint8{1, 2, 3}, 4, 2},
	}
	for _, tc := range cases {
		pal := BuildChunkPalette(tc.used, testColors(), bp)
		if pal.Len() != tc.len {
			t.Errorf("used %v: palette len got %d want %d", tc.used, pal.Len(), tc.len)
		}
		if pal.BitWidth() != tc.width {
			t.Errorf("used %v: bit width got %d want %d", tc.used, pal.BitWidth(), tc.width)
		}
		if int(pal.AirIndex()) != tc.len-1 {
			t.Errorf("used %v: air index got %d want %d", tc.used, pal.AirIndex(), tc.len-1)
		}
	}
}

func TestChunkPalette_AirLastAndStates(t *testing.T) {
	pal := BuildChunkPalette([]uint8{1}, testColors(), testBlockPalette(t))
	states := pal.States()
	if states[0] != `{"Name":"minecraft:red_concrete"}` {
		t.Fatalf("state 0: got %q", states[0])
	}
	if states[len(states)-1] != AirState {
		t.Fatalf("last state: got %q want air", states[len(states)-1])
	}
}

func TestEncodeChunk_AllAir(t *testing.T) {
	m := &magica.Model{SizeX: 32, SizeY: 16, SizeZ: 16,
		Voxels: []magica.Voxel{{X: 0, Y: 0, Z: 0, ColorIndex: 1}}}
	idx, used, err := NewVoxelIndex(m)
	if err != nil {
		t.Fatal(err)
	}
	pal := BuildChunkPalette(used, testColors(), testBlockPalette(t))

	// Second chunk along X holds no voxels.
	if ec := EncodeChunk(idx, pal, Offset{X: 16}); ec != nil {
		t.Fatalf("EncodeChunk: expected nil for all-air chunk")
	}
	if ec := EncodeChunk(idx, pal, Offset{}); ec == nil {
		t.Fatalf("EncodeChunk: expected data for occupied chunk")
	}
}

func TestEncodeChunk_PackedLengthAndCounts(t *testing.T) {
	m := &magica.Model{SizeX: 16, SizeY: 16, SizeZ: 16,
		Voxels: []magica.Voxel{
			{X: 0, Y: 0, Z: 0, ColorIndex: 1},
			{X: 1, Y: 0, Z: 0, ColorIndex: 1},
			{X: 2, Y: 0, Z: 0, ColorIndex: 2},
		}}
	idx, used, err := NewVoxelIndex(m)
	if err != nil {
		t.Fatal(err)
	}
	pal := BuildChunkPalette(used, testColors(), testBlockPalette(t))

	ec := EncodeChunk(idx, pal, Offset{})
	if ec == nil {
		t.Fatal("EncodeChunk: nil")
	}

	// 3 palette entries -> 2 bits per voxel -> 4096*2/8 bytes.
	if len(ec.Data) != 1024 {
		t.Fatalf("packed length: got %d want 1024", len(ec.Data))
	}

	var total int32
	for _, c := range ec.Counts {
		total += c
	}
	if total != ChunkVolume {
		t.Fatalf("count total: got %d want %d", total, ChunkVolume)
	}
	if ec.Counts[0] != 2 || ec.Counts[1] != 1 {
		t.Fatalf("material counts: got %v", ec.Counts[:2])
	}
	if ec.Counts[pal.AirIndex()] != ChunkVolume-3 {
		t.Fatalf("air count: got %d want %d", ec.Counts[pal.AirIndex()], ChunkVolume-3)
	}
}

func TestModelCoord_Permutation(t *testing.T) {
	// Local X runs along model Y, local Y along model Z, local Z along model X.
	mx, my, mz := modelCoord(2, 3, 1, Offset{X: 16})
	if mx != 17 || my != 2 || mz != 3 {
		t.Fatalf("modelCoord: got (%d,%d,%d) want (17,2,3)", mx, my, mz)
	}
}

func TestEncodeChunk_VoxelLandsAtPermutedPosition(t *testing.T) {
	m := &magica.Model{SizeX: 32, SizeY: 16, SizeZ: 16,
		Voxels: []magica.Voxel{{X: 17, Y: 2, Z: 3, ColorIndex: 1}}}
	idx, used, err := NewVoxelIndex(m)
	if err != nil {
		t.Fatal(err)
	}
	pal := BuildChunkPalette(used, testColors(), testBlockPalette(t))

	ec := EncodeChunk(idx, pal, Offset{X: 16})
	if ec == nil {
		t.Fatal("EncodeChunk: nil")
	}
	width := pal.BitWidth()

	// Model (17,2,3) with base offset (16,0,0) is local (2,3,1), which the
	// format orders at 2*256 + 3*16 + 1.
	want := 2*ChunkEdge*ChunkEdge + 3*ChunkEdge + 1
	air := pal.AirIndex()
	for i := 0; i < ChunkVolume; i++ {
		got := bitAt(ec.Data, i, width)
		if i == want {
			if got != 0 {
				t.Fatalf("position %d: got palette index %d want 0", i, got)
			}
		} else if got != air {
			t.Fatalf("position %d: got palette index %d want air", i, got)
		}
	}
}

func TestBitWriter_LittleEndianOrder(t *testing.T) {
	w := newBitWriter(12)
	// Three 4-bit values 0x1, 0x2, 0x3 -> bytes 0x21, 0x03.
	w.write(1, 4)
	w.write(2, 4)
	w.write(3, 4)
	got := w.finish()
	if len(got) != 2 || got[0] != 0x21 || got[1] != 0x03 {
		t.Fatalf("bit order: got %x want 2103", got)
	}
}
