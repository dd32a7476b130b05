package pattern

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"voxpattern.ai/internal/blocks"
	"voxpattern.ai/internal/magica"
)

// FileExt is the pattern file extension the mod picks up.
const FileExt = ".cbsbp"

type ExportOptions struct {
	// Prefix names the output files: <Prefix>.cbsbp for a single-chunk
	// model, <Prefix>_<n>.cbsbp otherwise.
	Prefix string
	// Workers bounds the chunk encoder goroutines; 0 means NumCPU.
	Workers int
}

// ExportModel converts one model into pattern files and returns the written
// paths in emission order. Chunks encode concurrently against the read-only
// index and shared palette; files are written sequentially so the numbering
// follows chunk enumeration order, and each file is written atomically.
func ExportModel(m *magica.Model, colors [256]magica.Color, bp *blocks.Palette, opts ExportOptions) ([]string, error) {
	if bp == nil || bp.Len() == 0 {
		return nil, fmt.Errorf("empty block palette")
	}

	idx, used, err := NewVoxelIndex(m)
	if err != nil {
		return nil, err
	}
	pal := BuildChunkPalette(used, colors, bp)
	offsets := planChunks(m.SizeX, m.SizeY, m.SizeZ)

	encoded := make([]*EncodedChunk, len(offsets))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workerCount(opts.Workers, len(offsets)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				encoded[i] = EncodeChunk(idx, pal, offsets[i])
			}
		}()
	}
	for i := range offsets {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	single := len(offsets) == 1
	var written []string
	emit := 0
	for _, ec := range encoded {
		if ec == nil {
			continue
		}
		buf, err := EncodePattern(ec, pal)
		if err != nil {
			return written, fmt.Errorf("pattern %d: %w", emit, err)
		}
		path := opts.Prefix + FileExt
		if !single {
			path = fmt.Sprintf("%s_%d%s", opts.Prefix, emit, FileExt)
		}
		if err := writeFileAtomic(path, buf); err != nil {
			return written, err
		}
		written = append(written, path)
		emit++
	}
	return written, nil
}

func workerCount(requested, chunks int) int {
	n := requested
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > chunks {
		n = chunks
	}
	if n < 1 {
		n = 1
	}
	return n
}

// writeFileAtomic stages the buffer next to the target and renames it into
// place, so a failed run never leaves a truncated pattern file behind.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
