package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var intensityOutput outputFlags

var intensityCmd = &cobra.Command{
	Use:     "intensity <event-id>",
	Short:   "List the intensity observed at each station for one earthquake",
	Example: `  shindo intensity 20110311144618 --format json`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w, err := intensityOutput.writer(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}

		obs, eq, err := client.Intensities(ctx, args[0])
		if err != nil {
			return err
		}
		zap.L().Info("intensity lookup complete",
			zap.String("event", eq.ID),
			zap.String("max_intensity", eq.MaxIntensity.String()),
			zap.Int("stations", len(obs)),
		)

		return w.Observations(ctx, eq, obs)
	},
}

func init() {
	intensityOutput.bindFlags(intensityCmd.Flags())
	rootCmd.AddCommand(intensityCmd)
}
