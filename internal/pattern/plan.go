package pattern

// Offset is a chunk's base position in model coordinates.
type Offset struct {
	X, Y, Z int
}

// planChunks covers the model bounds with chunk-sized cubes. Enumeration
// order is fixed (X outermost, Z innermost) and drives output file naming.
func planChunks(sizeX, sizeY, sizeZ int) []Offset {
	nx := (sizeX + ChunkEdge - 1) / ChunkEdge
	ny := (sizeY + ChunkEdge - 1) / ChunkEdge
	nz := (sizeZ + ChunkEdge - 1) / ChunkEdge

	offsets := make([]Offset, 0, nx*ny*nz)
	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			for z := 0; z < nz; z++ {
				offsets = append(offsets, Offset{X: x * ChunkEdge, Y: y * ChunkEdge, Z: z * ChunkEdge})
			}
		}
	}
	return offsets
}
