package commands

import (
	"fmt"

	"gdp-pipeline/internal/api"
	"gdp-pipeline/internal/model"
	"gdp-pipeline/internal/store"
	"gdp-pipeline/pkg/router"
	"gdp-pipeline/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the loaded GDP table over a read-only HTTP API.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := model.DefaultConfig()

		if _, err := utils.FileSize(cfg.DBPath); err != nil {
			return fmt.Errorf("database %s not found, run gdp-etl first: %w", cfg.DBPath, err)
		}

		st, err := store.Open(cmd.Context(), cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()

		logger := zap.L()
		r := router.New(logger)
		api.RegisterRoutes(r, st, cfg.TableName, logger)

		return r.Start(cmd.Context(), cfg.APIAddr)
	},
}
