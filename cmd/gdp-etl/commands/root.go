package commands

import (
	"context"
	"fmt"
	"os"

	"gdp-pipeline/internal/model"
	"gdp-pipeline/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var rootCmd = &cobra.Command{
	Use:   "gdp-etl",
	Short: "gdp-etl extracts the countries-by-GDP table and loads it to CSV and SQLite.",
	Args:  cobra.NoArgs,
	// errors are reported once, through the logger
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := pipeline.Run(cmd.Context(), model.DefaultConfig(), pipeline.Deps{
			Out: cmd.OutOrStdout(),
		})
		return err
	},
}

func setupLogger() error {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return nil
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		zap.L().Error("gdp-etl failed", zap.Error(err))
		zap.L().Sync()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	zap.L().Sync()
}
