package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/shindo-cli/pkg/shindo"
)

var (
	statsInput  queryInput
	statsOutput outputFlags
	statsMethod string
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Count earthquakes per maximum intensity, bucketed by period",
	Example: `  shindo stats --from 2000/01/01 --to 2020/01/01 --method year --intensity 4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		q, err := statsInput.query()
		if err != nil {
			return err
		}
		w, err := statsOutput.writer(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}

		buckets, summary, err := client.Statistics(ctx, shindo.StatisticsParams{
			Query:       q,
			Aggregation: shindo.Aggregation(statsMethod),
		})
		if err != nil {
			return err
		}
		fields := []zap.Field{zap.Int("buckets", len(buckets))}
		if summary != nil {
			fields = append(fields, zap.Int("total", summary.Total()))
		}
		zap.L().Info("statistics complete", fields...)

		return w.Statistics(ctx, buckets, summary)
	},
}

func init() {
	statsInput.bindFlags(statsCmd)
	statsOutput.bindFlags(statsCmd.Flags())
	statsCmd.Flags().StringVar(&statsMethod, "method", string(shindo.AggregateAuto), "aggregation: auto, day, month, year")
	rootCmd.AddCommand(statsCmd)
}
