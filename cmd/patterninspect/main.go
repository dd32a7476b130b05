// Command patterninspect decodes a Chisels and Bits pattern file and prints
// its palette and block statistics.
package main

import (
	"flag"
	"fmt"
	"os"

	"voxpattern.ai/internal/pattern"
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: patterninspect file"+pattern.FileExt)
		os.Exit(2)
	}

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "read pattern:", err)
		os.Exit(1)
	}
	doc, err := pattern.DecodePattern(raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, "decode pattern:", err)
		os.Exit(1)
	}

	fmt.Printf("palette=%d data=%dB primary=%s\n",
		len(doc.ChiseledData.Palette), len(doc.ChiseledData.Data), doc.Statistics.PrimaryState.State)
	for _, bs := range doc.Statistics.BlockStates {
		fmt.Printf("%8d %s\n", bs.Count, bs.BlockInformation.State)
	}
}
