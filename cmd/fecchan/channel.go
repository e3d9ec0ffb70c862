package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/observe-l/fecchan/internal/channel"
	"github.com/observe-l/fecchan/internal/source"
	"github.com/observe-l/fecchan/internal/stats"
	"github.com/spf13/cobra"
)

func (a *app) channelCmd() *cobra.Command {
	var (
		p    float64
		seed int64
	)
	cmd := &cobra.Command{
		Use:   "channel <in> <out>",
		Short: "Pass a file through a binary symmetric channel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("prob") {
				p = a.cfg.Channel.FlipProbability
			}
			if !cmd.Flags().Changed("seed") {
				seed = a.cfg.Channel.Seed
			}
			bsc, err := channel.NewBSC(p, rand.New(rand.NewSource(seed)))
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			noisy, flips := bsc.Transmit(data)
			if err := writeOutput(args[1], noisy); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "flipped %d of %d bits\n", flips, len(data)*8)
			a.log.WithField("p", p).WithField("flips", flips).Info("transmitted")
			return nil
		},
	}
	cmd.Flags().Float64VarP(&p, "prob", "p", 0.01, "bit flip probability")
	cmd.Flags().Int64Var(&seed, "seed", 1, "noise seed")
	return cmd
}

func (a *app) generateCmd() *cobra.Command {
	var (
		p0   float64
		dist string
		n    int
		seed int64
	)
	cmd := &cobra.Command{
		Use:   "generate <out>",
		Short: "Generate a random source file",
		Long: `Generate writes -n random bytes drawn either from the 8th extension of a
binary source with P(0) = --p0, or from the byte distribution in column 1
of the CSV file given by --dist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				d   source.Distribution
				err error
			)
			switch {
			case dist != "" && cmd.Flags().Changed("p0"):
				return errors.New("--p0 and --dist are mutually exclusive")
			case dist != "":
				d, err = source.LoadDistribution(dist)
			default:
				d, err = source.ExtendP0(p0)
			}
			if err != nil {
				return err
			}
			if n < 0 {
				return fmt.Errorf("-n %d is negative", n)
			}
			data, err := source.Generate(d, n, rand.New(rand.NewSource(seed)))
			if err != nil {
				return err
			}
			if err := writeOutput(args[0], data); err != nil {
				return err
			}
			a.log.WithField("bytes", n).WithField("entropy", stats.Entropy(data)).Info("generated")
			return nil
		},
	}
	cmd.Flags().Float64Var(&p0, "p0", 0.5, "probability of a zero bit")
	cmd.Flags().StringVar(&dist, "dist", "", "CSV byte distribution file")
	cmd.Flags().IntVarP(&n, "bytes", "n", 1024, "number of bytes")
	cmd.Flags().Int64Var(&seed, "seed", 1, "source seed")
	return cmd
}

func (a *app) analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <in> <out.csv>",
		Short: "Write the byte distribution of a file and print its entropy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			an := source.Analyze(data)
			if err := source.WriteDistribution(args[1], an.Distribution); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "P0=%.6f H=%.6f bit/bit redundancy=%.6f\n", an.P0, an.Entropy, an.Redundancy)
			return nil
		},
	}
}
