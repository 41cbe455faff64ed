// Package main provides a CLI tool that decodes scene scripts and prints
// their action records.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/nancy/internal/game/action"
)

type dumpedRecord struct {
	Index       int           `yaml:"index"`
	Kind        string        `yaml:"kind"`
	Exec        string        `yaml:"exec"`
	Description string        `yaml:"description"`
	Fields      action.Record `yaml:"fields"`
}

func main() {
	start := time.Now()

	format := flag.String("format", "text", "output format: text or yaml")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: ardump [-format text|yaml] SCRIPT.ar...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 || (*format != "text" && *format != "yaml") {
		flag.Usage()
		os.Exit(1)
	}

	total := 0
	for _, path := range flag.Args() {
		records, err := decodeFile(path)
		if err != nil {
			log.Fatalf("decoding %s: %v", path, err)
		}
		total += len(records)
		switch *format {
		case "yaml":
			err = writeYAML(os.Stdout, path, records)
		default:
			err = writeText(os.Stdout, path, records)
		}
		if err != nil {
			log.Fatalf("writing %s: %v", path, err)
		}
	}

	fmt.Fprintf(os.Stderr, "decoded %d records from %d scripts [%s]\n", total, flag.NArg(), time.Since(start))
}

func decodeFile(path string) ([]action.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return action.DecodeStream(f)
}

func writeText(w io.Writer, path string, records []action.Record) error {
	fmt.Fprintf(w, "%s: %d records\n", path, len(records))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tKIND\tEXEC\tDESCRIPTION")
	for i, rec := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, rec.Kind(), rec.ExecType(), rec.Description())
	}
	return tw.Flush()
}

func writeYAML(w io.Writer, path string, records []action.Record) error {
	out := make([]dumpedRecord, 0, len(records))
	for i, rec := range records {
		out = append(out, dumpedRecord{
			Index:       i,
			Kind:        rec.Kind().String(),
			Exec:        rec.ExecType().String(),
			Description: rec.Description(),
			Fields:      rec,
		})
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(map[string]any{"script": path, "records": out})
}
