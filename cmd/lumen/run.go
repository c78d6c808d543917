package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/gookit/color"
	"github.com/lumen-dev/lumen/asm"
	"github.com/lumen-dev/lumen/cas"
	"github.com/lumen-dev/lumen/config"
	"github.com/lumen-dev/lumen/interp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configFile  string
	repeatCount int
	noPauseFlag bool
	debugFlag   bool
	dumpFlag    bool
)

var runCmd = &cobra.Command{
	Use:   "run PROGRAM...",
	Short: "Run one or more programs",
	Args:  cobra.MinimumNArgs(1),
	Run:   runCommand,
}

func init() {
	runCmd.Flags().StringVar(&configFile, "config", "", "Light and machine configuration file")
	runCmd.Flags().IntVar(&repeatCount, "repeat", 1, "Run the programs this many times (0 repeats until interrupted)")
	runCmd.Flags().BoolVar(&noPauseFlag, "no-pause", false, "Ignore PAUSE instructions")
	runCmd.Flags().BoolVar(&debugFlag, "debug", false, "Print each program listing before running it")
	runCmd.Flags().BoolVar(&dumpFlag, "dump", false, "Print the machine state after each program")
}

// programLoaders caches parsed programs across repeats, one loader per
// source format sharing a single store.
type programLoaders struct {
	text   *cas.CachingLoader
	binary *cas.CachingLoader
}

func newProgramLoaders() *programLoaders {
	store := cas.NewMemoryStore()
	return &programLoaders{
		text:   cas.NewCachingLoader(asm.NewLoader(), store, 0),
		binary: cas.NewCachingLoader(asm.BinaryLoader{}, store, 0),
	}
}

func (p *programLoaders) run(ctx context.Context, m *interp.Machine, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	loader := p.text
	if strings.EqualFold(filepath.Ext(path), asm.BinaryExt) {
		loader = p.binary
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return m.RunSource(ctx, loader, name, f)
}

func runCommand(cmd *cobra.Command, args []string) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Couldn't load config")
		}
	}
	opts, closer, err := cfg.Options()
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't set up machine")
	}
	defer closer.Close()
	if noPauseFlag {
		opts.NoPause = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := interp.NewMachine(opts)
	loaders := newProgramLoaders()
	for i := 0; repeatCount <= 0 || i < repeatCount; i++ {
		for _, path := range args {
			if debugFlag && i == 0 {
				if p, err := asm.LoadFile(path); err == nil {
					p.DebugPrint(os.Stderr)
				}
			}
			err := loaders.run(ctx, m, path)
			if dumpFlag {
				fmt.Fprint(os.Stderr, m.PrettyPrint())
			}
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(os.Stderr, color.Yellow.Sprint("Interrupted"))
				return
			}
			if err != nil {
				log.Fatal().Err(err).Str("program", path).Msg("Program failed")
			}
			log.Debug().Str("program", path).Str("run_id", m.RunID().String()).Msg("Program finished")
		}
	}
	stats := loaders.text.Stats()
	log.Debug().Int("cache_hits", stats.Hits).Int("cache_misses", stats.Misses).Msg("Done")
	fmt.Fprintln(os.Stderr, color.Green.Sprint("✓ All programs finished"))
}
