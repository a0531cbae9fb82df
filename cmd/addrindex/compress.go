package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"addrindex/internal/addrline"
	"addrindex/internal/world"
)

var compressCmd = &cobra.Command{
	Use:   "compress <snapshot-out>",
	Args:  cobra.ExactArgs(1),
	Short: "Compact stdin JSON address lines into a binary World snapshot",
	RunE:  runCompress,
}

var compressAutofix bool

func init() {
	compressCmd.Flags().BoolVar(&compressAutofix, "autofix", true, "resolve records missing country and/or city where possible")
}

func runCompress(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	var records []addrline.Record
	in := bufio.NewReaderSize(os.Stdin, 1<<20)
	if err := addrline.Scan(in, func(r addrline.Record) error {
		records = append(records, r)
		return nil
	}); err != nil {
		return fmt.Errorf("read address lines: %w", err)
	}

	w, stats, err := world.Build(records, world.BuildOptions{
		Autofix: compressAutofix,
		Progress: func(msg string) {
			logger.Info().Msg(msg)
		},
	})
	if err != nil {
		return fmt.Errorf("build world: %w", err)
	}
	logger.Info().
		Int("complete", stats.Complete).
		Int("incomplete", stats.Incomplete).
		Int("fixed", stats.Fixed).
		Int("unfixable", stats.Unfixable).
		Int("streets", stats.Streets).
		Int("housenumbers", stats.Housenumbers).
		Msg("build complete")

	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()

	out := bufio.NewWriterSize(f, 1<<20)
	if err := world.Serialize(out, w); err != nil {
		return fmt.Errorf("serialize snapshot: %w", err)
	}
	return out.Flush()
}
