package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/shindo-cli/internal/config"
	"github.com/sells-group/shindo-cli/pkg/shindo"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "shindo",
	Short: "Search the JMA seismic intensity database",
	Long:  "Searches earthquakes, intensity statistics and per-station observations in the Japan Meteorological Agency seismic intensity database, and resolves prefecture, city, station and region codes.",

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newClient builds an API client from the loaded configuration.
func newClient(opts ...shindo.Option) (shindo.Client, error) {
	if err := cfg.Validate("client"); err != nil {
		return nil, err
	}
	base := []shindo.Option{
		shindo.WithBaseURL(cfg.API.BaseURL),
		shindo.WithTimeout(cfg.API.Timeout()),
		shindo.WithUserAgent(cfg.API.UserAgent),
	}
	return shindo.NewClient(append(base, opts...)...), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
