package main

import (
	"os"

	"github.com/observe-l/fecchan/internal/stats"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

func (a *app) reportCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "report <original> <encoded> <decoded> <out.csv>",
		Short: "Append BER, code rates and compression ratio to a CSV report",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make([][]byte, 3)
			for i := range files {
				b, err := os.ReadFile(args[i])
				if err != nil {
					return err
				}
				files[i] = b
			}
			row, err := stats.Compare(files[0], files[1], files[2], nil)
			if err != nil {
				return err
			}
			row.RunID = ksuid.New().String()
			row.Original, row.Encoded, row.Decoded = args[0], args[1], args[2]
			if err := stats.AppendCSV(args[3], row); err != nil {
				return err
			}
			a.log.WithField("run_id", row.RunID).WithField("ber", row.BitErrorRate).Info("report row appended")
			if asJSON {
				return stats.WriteJSONLine(cmd.OutOrStdout(), &row)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "also print the row as JSON")
	return cmd
}
