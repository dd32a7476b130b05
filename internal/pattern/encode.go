package pattern

const (
	// ChunkEdge is the chunk side length in voxels.
	ChunkEdge   = 16
	ChunkVolume = ChunkEdge * ChunkEdge * ChunkEdge
)

// localPos splits a linear position into chunk-local coordinates, matching
// the pattern format's voxel ordering.
func localPos(i int) (x, y, z int) {
	x = i / (ChunkEdge * ChunkEdge)
	y = i / ChunkEdge % ChunkEdge
	z = i % ChunkEdge
	return
}

// modelCoord maps a chunk-local position onto the source model's axes. The
// pattern format's local axes do not line up with MagicaVoxel's: local X runs
// along model Y, local Y along model Z and local Z along model X. A wrong
// mapping does not fail, it loads rotated geometry in game.
func modelCoord(lx, ly, lz int, off Offset) (mx, my, mz int) {
	return lz + off.X, lx + off.Y, ly + off.Z
}

// EncodedChunk is one chunk's bit-packed palette indices plus per-entry
// occurrence counts over the chunk volume.
type EncodedChunk struct {
	Data   []byte
	Counts []int32
}

// EncodeChunk packs the chunk at the given base offset against the shared
// palette. Returns nil when every position resolves to air; such chunks
// produce no pattern file.
func EncodeChunk(idx *VoxelIndex, pal *ChunkPalette, off Offset) *EncodedChunk {
	width := pal.BitWidth()
	w := newBitWriter(ChunkVolume * width)
	counts := make([]int32, pal.Len())
	air := pal.AirIndex()

	onlyAir := true
	for i := 0; i < ChunkVolume; i++ {
		lx, ly, lz := localPos(i)
		mx, my, mz := modelCoord(lx, ly, lz, off)

		v := air
		if slot, ok := idx.Get(mx, my, mz); ok {
			if pi, ok := pal.SlotIndex(slot); ok {
				v = pi
				onlyAir = false
			}
		}
		w.write(v, width)
		counts[v]++
	}
	if onlyAir {
		return nil
	}
	return &EncodedChunk{Data: w.finish(), Counts: counts}
}

type bitWriter struct {
	buf []byte
	acc uint32
	n   uint
}

func newBitWriter(totalBits int) *bitWriter {
	return &bitWriter{buf: make([]byte, 0, (totalBits+7)/8)}
}

// write appends the low width bits of v, least significant bit first.
func (w *bitWriter) write(v uint8, width int) {
	w.acc |= uint32(v) << w.n
	w.n += uint(width)
	for w.n >= 8 {
		w.buf = append(w.buf, byte(w.acc))
		w.acc >>= 8
		w.n -= 8
	}
}

func (w *bitWriter) finish() []byte {
	if w.n > 0 {
		w.buf = append(w.buf, byte(w.acc))
		w.acc, w.n = 0, 0
	}
	return w.buf
}
