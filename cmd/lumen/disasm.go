package main

import (
	"os"

	"github.com/lumen-dev/lumen/asm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var listingFlag bool

var disasmCmd = &cobra.Command{
	Use:   "disasm FILE",
	Short: "Print a program in the TOML assembly format",
	Args:  cobra.ExactArgs(1),
	Run:   disasmCommand,
}

func init() {
	disasmCmd.Flags().BoolVar(&listingFlag, "listing", false, "Print a numbered listing instead of assembly")
}

func disasmCommand(cmd *cobra.Command, args []string) {
	p, err := asm.LoadFile(args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load program")
	}
	if listingFlag {
		p.DebugPrint(os.Stdout)
		return
	}
	if err := asm.Disassemble(os.Stdout, p); err != nil {
		log.Fatal().Err(err).Msg("Couldn't write program")
	}
}
