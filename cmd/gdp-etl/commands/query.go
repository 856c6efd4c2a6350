package commands

import (
	"fmt"

	"gdp-pipeline/internal/model"
	"gdp-pipeline/internal/query"
	"gdp-pipeline/internal/store"
	"gdp-pipeline/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Re-runs the GDP threshold query against the existing database.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := model.DefaultConfig()

		// sqlite would silently create an empty database
		if _, err := utils.FileSize(cfg.DBPath); err != nil {
			return fmt.Errorf("database %s not found, run gdp-etl first: %w", cfg.DBPath, err)
		}

		st, err := store.Open(cmd.Context(), cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()

		statement, err := query.Statement(cfg.TableName, cfg.QueryThreshold)
		if err != nil {
			return err
		}
		rows, err := query.Run(cmd.Context(), cmd.OutOrStdout(), st, statement)
		if err != nil {
			return err
		}
		zap.L().Info("query complete", zap.Int("rows", rows))
		return nil
	},
}
