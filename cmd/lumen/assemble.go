package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gookit/color"
	"github.com/lumen-dev/lumen/asm"
	"github.com/lumen-dev/lumen/vm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var outputFile string

var assembleCmd = &cobra.Command{
	Use:   "assemble SRC",
	Short: "Convert a TOML assembly program to the binary format",
	Args:  cobra.ExactArgs(1),
	Run:   assembleCommand,
}

func init() {
	assembleCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default SRC with the binary extension)")
}

func assembleCommand(cmd *cobra.Command, args []string) {
	src := args[0]
	p, err := asm.LoadFile(src)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load program")
	}
	out := outputFile
	if out == "" {
		out = strings.TrimSuffix(src, filepath.Ext(src)) + asm.BinaryExt
	}
	f, err := os.Create(out)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't create output")
	}
	if err := vm.EncodeProgram(f, p); err != nil {
		f.Close()
		log.Fatal().Err(err).Msg("Couldn't encode program")
	}
	if err := f.Close(); err != nil {
		log.Fatal().Err(err).Msg("Couldn't write output")
	}
	fmt.Fprintln(os.Stderr, color.Green.Sprintf("Wrote %s: %d instructions, %d routines, fingerprint %016x",
		out, len(p.Code), len(p.Routines), p.Fingerprint()))
}
