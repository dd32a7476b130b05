// Package pattern turns a voxel model into Chisels and Bits pattern files:
// chunk planning, bit-packed chunk encoding and the nested pattern codec.
package pattern

import (
	"fmt"

	"voxpattern.ai/internal/magica"
)

// MaxSide bounds the voxel coordinate space per axis.
const MaxSide = magica.MaxSide

// VoxelIndex is a dense coordinate -> color slot lookup over the full
// supported coordinate space. Unwritten positions read as absent.
type VoxelIndex struct {
	slots []int16 // -1 when empty
}

// NewVoxelIndex builds the lookup table and returns the distinct color slots
// in first-encountered scan order. Voxels outside the supported coordinate
// space are an input error.
func NewVoxelIndex(m *magica.Model) (*VoxelIndex, []uint8, error) {
	idx := &VoxelIndex{slots: make([]int16, MaxSide*MaxSide*MaxSide)}
	for i := range idx.slots {
		idx.slots[i] = -1
	}

	var used []uint8
	seen := make(map[uint8]bool)
	for _, v := range m.Voxels {
		if v.X < 0 || v.X >= MaxSide || v.Y < 0 || v.Y >= MaxSide || v.Z < 0 || v.Z >= MaxSide {
			return nil, nil, fmt.Errorf("voxel (%d,%d,%d) outside supported %d^3 space",
				v.X, v.Y, v.Z, MaxSide)
		}
		idx.slots[offsetOf(v.X, v.Y, v.Z)] = int16(v.ColorIndex)
		if !seen[v.ColorIndex] {
			seen[v.ColorIndex] = true
			used = append(used, v.ColorIndex)
		}
	}
	return idx, used, nil
}

// Get reports the color slot at a model coordinate. Positions outside the
// supported space read as absent.
func (idx *VoxelIndex) Get(x, y, z int) (uint8, bool) {
	if x < 0 || x >= MaxSide || y < 0 || y >= MaxSide || z < 0 || z >= MaxSide {
		return 0, false
	}
	s := idx.slots[offsetOf(x, y, z)]
	if s < 0 {
		return 0, false
	}
	return uint8(s), true
}

func offsetOf(x, y, z int) int {
	return (x*MaxSide+y)*MaxSide + z
}
