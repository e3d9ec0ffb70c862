package main

import (
	"fmt"
	"os"

	"github.com/observe-l/fecchan/internal/config"
	"github.com/observe-l/fecchan/internal/log"
	"github.com/spf13/cobra"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

// app carries what every subcommand needs after flag parsing.
type app struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "fecchan",
		Short: "Channel coding over a simulated binary symmetric channel",
		Long: `fecchan frames payloads with repetition or Hamming block codes,
pushes them through a noisy binary channel and reports how well they survive.

Example:
  fecchan generate --p0 0.9 -n 4096 src.bin
  fecchan encode -m lin -f 3 src.bin enc.bin
  fecchan channel -p 0.01 enc.bin noisy.bin
  fecchan decode noisy.bin dec.bin
  fecchan report src.bin noisy.bin dec.bin report.csv`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides logging.level)")

	root.AddCommand(
		a.encodeCmd(),
		a.decodeCmd(),
		a.channelCmd(),
		a.generateCmd(),
		a.analyzeCmd(),
		a.reportCmd(),
		a.serveCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.DefaultConfig()
	if a.configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(a.configPath); err != nil {
			return err
		}
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	l, err := log.New("fecchan", log.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	if cfg.Logging.File != "" {
		log.AddFileSink(l, cfg.Logging.File)
	}
	a.cfg = cfg
	a.log = l.With(cmd.Name())
	return nil
}

// writeOutput writes data to path only once the whole result is known.
func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the fecchan version",
		Args:  cobra.NoArgs,
		// skip config loading
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "fecchan", version)
		},
	}
}
