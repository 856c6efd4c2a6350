package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gdp-pipeline/internal/model"
	"gdp-pipeline/internal/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func transformedTable() model.Table {
	return model.Table{
		Columns: []string{model.ColumnCountry, model.ColumnGDPBillions},
		Records: []model.Record{
			{Country: "United States", GDP: 26854.6},
			{Country: "Congo, Democratic Republic of the", GDP: 63.9},
			{Country: "Tuvalu", GDP: 0.06},
			{Country: "Round", GDP: 50},
		},
	}
}

const expectedCSV = `,Country,GDP_USD_billions
0,United States,26854.6
1,"Congo, Democratic Republic of the",63.9
2,Tuvalu,0.06
3,Round,50.0
`

func TestLoadToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "Countries_by_GDP.csv")
	prog := &memoryProgress{}
	loader := NewLoader(prog, zaptest.NewLogger(t))

	result, err := loader.LoadToFile(transformedTable(), path)
	require.NoError(t, err)
	require.Equal(t, 4, result.RecordCount)
	require.Equal(t, "csv", result.Type)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, expectedCSV, string(contents))
	require.Equal(t, []string{"Logging...... Load to CSV Process Completed"}, prog.messages)
}

func TestLoadToFile_OverwritesAndIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Countries_by_GDP.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale contents that are much longer than the new file\n"), 0644))

	loader := NewLoader(&memoryProgress{}, zaptest.NewLogger(t))
	_, err := loader.LoadToFile(transformedTable(), path)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = loader.LoadToFile(transformedTable(), path)
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	require.Equal(t, expectedCSV, string(first))
	require.Equal(t, first, second)
}

func TestLoadToFile_IOErrorIsFatal(t *testing.T) {
	dir := t.TempDir()
	// a directory cannot be truncated into a file
	_, err := NewLoader(&memoryProgress{}, zaptest.NewLogger(t)).LoadToFile(transformedTable(), dir)
	require.Error(t, err)
	require.Equal(t, model.KindIO, model.KindOf(err))
}

func TestLoadToDatabase_Idempotent(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "World_Economies.db"))
	require.NoError(t, err)
	defer st.Close()

	prog := &memoryProgress{}
	loader := NewLoader(prog, zaptest.NewLogger(t))

	for i := 0; i < 2; i++ {
		result, err := loader.LoadToDatabase(ctx, st, transformedTable(), "Countries_by_GDP")
		require.NoError(t, err)
		require.Equal(t, 4, result.RecordCount)
	}

	records, err := st.ListCountries(ctx, "Countries_by_GDP", 0)
	require.NoError(t, err)
	require.Equal(t, transformedTable().Records, records)
	require.Equal(t, []string{"Logging...... Load to SQL Database Process Completed", "Logging...... Load to SQL Database Process Completed"}, prog.messages)
}

func TestLoadToDatabase_InvalidTableName(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "World_Economies.db"))
	require.NoError(t, err)
	defer st.Close()

	_, err = NewLoader(&memoryProgress{}, zaptest.NewLogger(t)).LoadToDatabase(ctx, st, transformedTable(), "bad name")
	require.Equal(t, model.KindIO, model.KindOf(err))
}

func TestFormatGDP(t *testing.T) {
	require.Equal(t, "26854.6", FormatGDP(26854.6))
	require.Equal(t, "50.0", FormatGDP(50))
	require.Equal(t, "0.06", FormatGDP(0.06))
	require.Equal(t, "150.25", FormatGDP(150.25))
}
