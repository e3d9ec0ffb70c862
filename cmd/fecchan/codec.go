package main

import (
	"fmt"
	"os"
	"time"

	"github.com/observe-l/fecchan/fecframe"
	"github.com/spf13/cobra"
)

func (a *app) encodeCmd() *cobra.Command {
	var (
		method string
		factor int
	)
	cmd := &cobra.Command{
		Use:   "encode <in> <out>",
		Short: "Frame a file with a channel code",
		Long: `Encode reads <in>, codes it with the chosen method and writes the
frame to <out>. Methods: rep (repetition, factor 3, 5, 7 or 9) and
lin (Hamming block code, factor j = 3, 4 or 5 for (7,4), (15,11), (31,26)).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("method") {
				method = a.cfg.Codec.Method
			}
			if !cmd.Flags().Changed("factor") {
				factor = a.cfg.Codec.Factor
			}
			m, err := fecframe.ParseMethod(method)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			start := time.Now()
			frame, err := fecframe.Encode(m, data, factor)
			if err != nil {
				return err
			}
			if err := writeOutput(args[1], frame); err != nil {
				return err
			}
			a.log.WithField("method", m.String()).
				WithField("factor", factor).
				WithField("source_bits", len(data)*8).
				WithField("frame_bytes", len(frame)).
				WithField("duration", time.Since(start)).
				Info("encoded")
			return nil
		},
	}
	cmd.Flags().StringVarP(&method, "method", "m", "lin", "coding method: rep or lin")
	cmd.Flags().IntVarP(&factor, "factor", "f", 3, "repetition factor or parity length j")
	return cmd
}

func (a *app) decodeCmd() *cobra.Command {
	var strict, headerOnly bool
	cmd := &cobra.Command{
		Use:   "decode <in> [out]",
		Short: "Decode a frame, correcting what the code allows",
		Long: `Decode reads a frame from <in>, corrects errors and writes the payload
to [out]. The header and correction counts are printed to stdout.
With --header-only only the header is printed and [out] is not needed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if headerOnly {
				h, err := fecframe.PeekHeader(frame)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, h)
				return nil
			}
			if len(args) < 2 {
				return fmt.Errorf("decode needs an output path unless --header-only is set")
			}
			tail, err := a.cfg.Codec.TailPolicy()
			if err != nil {
				return err
			}
			if strict {
				tail = fecframe.RejectIncompleteTail
			}
			res, err := fecframe.NewDecoder(fecframe.Options{Tail: tail}).Decode(frame)
			if err != nil {
				return err
			}
			if err := writeOutput(args[1], res.Data); err != nil {
				return err
			}
			st := res.Stats
			fmt.Fprintln(out, res.Header)
			fmt.Fprintf(out, "blocks=%d corrected=%d uncorrectable=%d parity_only=%d decoded_bits=%d truncated=%t\n",
				st.Blocks, st.Corrected, st.Uncorrectable, st.ParityOnly, st.DecodedBits, st.Truncated)
			entry := a.log.WithField("method", res.Header.Method.String()).
				WithField("factor", res.Header.Factor).
				WithField("source_bits", res.Header.SourceLength).
				WithField("corrected", st.Corrected).
				WithField("uncorrectable", st.Uncorrectable)
			if st.Truncated {
				entry.Warn("frame truncated")
			} else {
				entry.Info("decoded")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on a truncated payload instead of decoding what is present")
	cmd.Flags().BoolVar(&headerOnly, "header-only", false, "print the frame header and stop")
	return cmd
}
