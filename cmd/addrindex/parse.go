package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"addrindex/internal/addrline"
	"addrindex/internal/osmextract"
)

var parseCmd = &cobra.Command{
	Use:   "parse <pbf-file>",
	Args:  cobra.ExactArgs(1),
	Short: "Extract address records from an OSM-PBF file to stdout JSON lines",
	RunE:  runParse,
}

var parseProgressEvery int

func init() {
	parseCmd.Flags().IntVar(&parseProgressEvery, "progress-every", 500000, "log a progress line every N scanned entities (0 disables)")
}

func runParse(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	out := bufio.NewWriterSize(os.Stdout, 1<<20)
	defer out.Flush()

	opts := osmextract.Options{Logger: logger, ProgressEvery: parseProgressEvery}
	err := osmextract.Extract(context.Background(), args[0], opts, func(r addrline.Record) error {
		return r.Encode(out)
	})
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	return out.Flush()
}
