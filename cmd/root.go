package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trunk-indexer/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "trunk-indexer",
	Short: "Geocode and index trunk-recorder calls",
	Long:  "Loads street centerline data, transcribes recorded radio calls, extracts spoken addresses and intersections, and indexes the results in OpenSearch.",
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

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
