package pattern

import (
	"fmt"
	"math/bits"

	"voxpattern.ai/internal/blocks"
	"voxpattern.ai/internal/magica"
)

// AirState is always the final chunk palette entry.
const AirState = `{"Name":"minecraft:air"}`

// ChunkPalette is the shared material palette for every chunk of one model:
// one state per distinct used color slot, in slot-assignment order, plus the
// trailing air entry.
type ChunkPalette struct {
	states []string
	slots  map[uint8]uint8
}

// BuildChunkPalette resolves each used color slot to its nearest block state.
func BuildChunkPalette(used []uint8, colors [256]magica.Color, bp *blocks.Palette) *ChunkPalette {
	p := &ChunkPalette{
		states: make([]string, 0, len(used)+1),
		slots:  make(map[uint8]uint8, len(used)),
	}
	for _, slot := range used {
		c := colors[slot]
		state := bp.Closest(c.R, c.G, c.B)
		p.slots[slot] = uint8(len(p.states))
		p.states = append(p.states, fmt.Sprintf(`{"Name":%q}`, state))
	}
	p.states = append(p.states, AirState)
	return p
}

func (p *ChunkPalette) Len() int {
	return len(p.states)
}

func (p *ChunkPalette) States() []string {
	return p.states
}

func (p *ChunkPalette) AirIndex() uint8 {
	return uint8(len(p.states) - 1)
}

// SlotIndex maps a model color slot to its palette index.
func (p *ChunkPalette) SlotIndex(slot uint8) (uint8, bool) {
	i, ok := p.slots[slot]
	return i, ok
}

// BitWidth is the packed width of one palette index: ceil(log2(len)).
func (p *ChunkPalette) BitWidth() int {
	return bits.Len(uint(len(p.states) - 1))
}
