package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// config holds optional defaults for flags; values set on the command line
// always win.
type config struct {
	Output  string `yaml:"output"`
	Palette string `yaml:"palette"`
	Workers int    `yaml:"workers"`
}

func loadConfig(path string) (config, error) {
	var c config
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func applyConfig(cfg config, output, palette *string, workers *int) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["output"] && cfg.Output != "" {
		*output = cfg.Output
	}
	if !set["palette"] && cfg.Palette != "" {
		*palette = cfg.Palette
	}
	if !set["workers"] && cfg.Workers > 0 {
		*workers = cfg.Workers
	}
}
