package commands

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"gdp-pipeline/internal/model"
	"gdp-pipeline/internal/store"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func runInTempDir(t *testing.T, cmd *cobra.Command) (string, error) {
	chdir(t, t.TempDir())

	var out bytes.Buffer
	cmd.SetContext(context.Background())
	cmd.SetOut(&out)
	t.Cleanup(func() { cmd.SetOut(nil) })

	err := cmd.RunE(cmd, nil)
	return out.String(), err
}

func TestMissingDatabaseIsRefused(t *testing.T) {
	for _, cmd := range []*cobra.Command{queryCmd, serveCmd} {
		t.Run(cmd.Name(), func(t *testing.T) {
			_, err := runInTempDir(t, cmd)
			require.Error(t, err)
			require.Contains(t, err.Error(), "World_Economies.db not found")

			_, statErr := os.Stat(model.DefaultConfig().DBPath)
			require.True(t, os.IsNotExist(statErr), "no database file may be created")
		})
	}
}

func TestQueryCommand(t *testing.T) {
	cfg := model.DefaultConfig()
	chdir(t, t.TempDir())

	st, err := store.Open(context.Background(), cfg.DBPath)
	require.NoError(t, err)
	require.NoError(t, st.ReplaceTable(context.Background(), cfg.TableName, model.Table{
		Records: []model.Record{
			{Country: "United States", GDP: 26854.6},
			{Country: "Tuvalu", GDP: 0.06},
		},
	}))
	require.NoError(t, st.Close())

	var out bytes.Buffer
	queryCmd.SetContext(context.Background())
	queryCmd.SetOut(&out)
	t.Cleanup(func() { queryCmd.SetOut(nil) })

	require.NoError(t, queryCmd.RunE(queryCmd, nil))
	require.True(t, strings.HasPrefix(out.String(), "SELECT * FROM Countries_by_GDP WHERE GDP_USD_billions >= 100\n"))
	require.Contains(t, out.String(), "United States")
	require.NotContains(t, out.String(), "Tuvalu")
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
