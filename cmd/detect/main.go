// Package main provides a CLI tool that identifies Private Eye releases in a
// directory.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cory-johannsen/nancy/internal/detection"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: detect DIR\n")
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	dir := flag.Arg(0)

	e := detection.PrivateEye
	matches, err := detection.Detect(os.DirFS(dir))
	if err != nil {
		log.Fatalf("detecting in %s: %v", dir, err)
	}
	if len(matches) == 0 {
		fmt.Fprintf(os.Stdout, "no %s release found in %s\n", e.Name, dir)
		os.Exit(2)
	}

	for _, m := range matches {
		r := m.Release
		name := e.Games[r.GameID]
		if r.Extra != "" {
			name += " (" + r.Extra + ")"
		}
		paths := make([]string, 0, len(m.Files))
		for _, f := range m.Files {
			paths = append(paths, f.Path)
		}
		fmt.Fprintf(os.Stdout, "%s: %s [%s, %s, flags=%s, gui=%s] %s\n",
			e.ID, name, r.Language, r.Platform, r.Flags, strings.Join(r.GUI, ","), strings.Join(paths, ","))
		if r.Flags.Has(detection.FlagUnsupported) {
			fmt.Fprintf(os.Stdout, "  warning: this release is not supported\n")
		}
	}
	fmt.Fprintf(os.Stdout, "%s\n", e.Copyright)
}
