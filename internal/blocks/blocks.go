// Package blocks loads the block palette file and matches voxel colors to
// block states by perceptual color distance.
package blocks

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// The palette file is a flat JSON object: hex RGB color -> block state id.
const paletteSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "minProperties": 1,
  "propertyNames": {"pattern": "^#?[0-9a-fA-F]{6}$"},
  "additionalProperties": {"type": "string", "minLength": 1}
}`

var schema = jsonschema.MustCompileString("blocks.schema.json", paletteSchema)

// Palette maps colors to block state ids. Entries are ordered by hex key so
// matching is deterministic regardless of JSON key order.
type Palette struct {
	entries []entry
}

type entry struct {
	color colorful.Color
	state string
}

func Load(path string) (*Palette, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func Parse(raw []byte) (*Palette, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("block palette: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("block palette: %w", err)
	}

	var mapping map[string]string
	if err := json.Unmarshal(raw, &mapping); err != nil {
		return nil, fmt.Errorf("block palette: %w", err)
	}

	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := &Palette{entries: make([]entry, 0, len(keys))}
	for _, k := range keys {
		hex := k
		if !strings.HasPrefix(hex, "#") {
			hex = "#" + hex
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("block palette: color %q: %w", k, err)
		}
		p.entries = append(p.entries, entry{color: c, state: mapping[k]})
	}
	return p, nil
}

func (p *Palette) Len() int {
	return len(p.entries)
}

// Closest returns the block state whose palette color is nearest to the given
// sRGB color under the CIEDE2000 metric.
func (p *Palette) Closest(r, g, b uint8) string {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	best := 0
	bestDist := math.Inf(1)
	for i, e := range p.entries {
		if d := c.DistanceCIEDE2000(e.color); d < bestDist {
			best, bestDist = i, d
		}
	}
	return p.entries[best].state
}
