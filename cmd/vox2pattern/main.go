// Command vox2pattern converts MagicaVoxel models into Chisels and Bits
// pattern files.
//
// Usage:
//
//	vox2pattern [flags] model.vox
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"voxpattern.ai/internal/blocks"
	"voxpattern.ai/internal/magica"
	"voxpattern.ai/internal/pattern"
)

func main() {
	var (
		output  = flag.String("output", "pattern", "filename prefix for the resulting pattern(s)")
		palette = flag.String("palette", "blocks.json", "block palette file (hex color -> block state)")
		all     = flag.Bool("all", false, "export every model in the file")
		models  = flag.String("models", "", "comma separated 1-based model indices to export")
		workers = flag.Int("workers", 0, "chunk encoder goroutines (0 = number of CPUs)")
		cfgPath = flag.String("config", "", "optional YAML defaults file")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: vox2pattern [flags] model.vox")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if *all && *models != "" {
		fmt.Fprintln(os.Stderr, "-all and -models are mutually exclusive")
		os.Exit(2)
	}

	if *cfgPath != "" {
		cfg, err := loadConfig(*cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(1)
		}
		applyConfig(cfg, output, palette, workers)
	}

	file, err := magica.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "read model:", err)
		os.Exit(1)
	}
	bp, err := blocks.Load(*palette)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read palette:", err)
		os.Exit(1)
	}

	selected, err := selectModels(file, *all, *models)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if selected == nil {
		fmt.Fprintf(os.Stderr, "file holds %d models, pass -all or -models to choose\n", len(file.Models))
		os.Exit(2)
	}

	for i, m := range selected {
		prefix := *output
		if len(selected) > 1 {
			prefix = fmt.Sprintf("%s_%d", *output, i)
		}
		written, err := pattern.ExportModel(m, file.Palette, bp, pattern.ExportOptions{
			Prefix:  prefix,
			Workers: *workers,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			os.Exit(1)
		}
		for _, p := range written {
			fmt.Println(p)
		}
	}
}

// selectModels resolves the -all/-models flags against the file. A nil, nil
// return means a multi-model file with no selection, which the caller turns
// into a usage hint. Index validation happens here, before anything is
// exported.
func selectModels(file *magica.File, all bool, list string) ([]*magica.Model, error) {
	var selected []*magica.Model
	switch {
	case list != "":
		for _, part := range strings.Split(list, ",") {
			part = strings.TrimSpace(part)
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("bad model index %q", part)
			}
			if n < 1 || n > len(file.Models) {
				return nil, fmt.Errorf("model index %d out of range (file holds %d)", n, len(file.Models))
			}
			selected = append(selected, &file.Models[n-1])
		}
	case all || len(file.Models) == 1:
		for i := range file.Models {
			selected = append(selected, &file.Models[i])
		}
	}
	return selected, nil
}
