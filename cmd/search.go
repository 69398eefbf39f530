package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/shindo-cli/pkg/shindo"
)

var (
	searchInput  queryInput
	searchOutput outputFlags
	searchSort   string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search earthquakes (hypocenter list)",
	Example: `  shindo search --from 2011/03/11 --to 2011/03/12 --intensity 5L
  shindo search --from "2000/01/01 00:00" --to 2020/01/01 --pref 東京都 --station-intensity 4 --format csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		q, err := searchInput.query()
		if err != nil {
			return err
		}
		w, err := searchOutput.writer(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}

		eqs, err := client.SearchEarthquakes(ctx, shindo.SearchParams{
			Query: q,
			Sort:  shindo.SortOrder(searchSort),
		})
		if err != nil {
			return err
		}
		zap.L().Info("search complete", zap.Int("earthquakes", len(eqs)))

		return w.Earthquakes(ctx, eqs)
	},
}

func init() {
	searchInput.bindFlags(searchCmd)
	searchOutput.bindFlags(searchCmd.Flags())
	searchCmd.Flags().StringVar(&searchSort, "sort", string(shindo.SortStart), "sort order: start, end, intensity, scale")
	rootCmd.AddCommand(searchCmd)
}
