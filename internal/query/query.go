// Package query runs the report query against the loaded table and prints it.
package query

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"gdp-pipeline/internal/model"
	"gdp-pipeline/internal/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Statement builds the threshold query for tableName. The name is validated but left
// unquoted so the printed statement reads as written.
func Statement(tableName string, threshold float64) (string, error) {
	if err := store.ValidateIdentifier(tableName); err != nil {
		return "", model.NewStageError("query", model.KindIO, err)
	}
	return fmt.Sprintf("SELECT * FROM %s WHERE %s >= %s",
		tableName, model.ColumnGDPBillions, strconv.FormatFloat(threshold, 'f', -1, 64)), nil
}

// Run executes statement and writes the statement followed by the result table to w.
// It returns the number of result rows.
func Run(ctx context.Context, w io.Writer, st *store.Store, statement string) (int, error) {
	if _, err := fmt.Fprintln(w, statement); err != nil {
		return 0, model.NewStageError("query", model.KindIO, err)
	}

	result, err := st.Query(ctx, statement)
	if err != nil {
		return 0, model.NewStageError("query", model.KindIO, err)
	}

	t := NewTable(w)
	header := table.Row{""}
	for _, c := range result.Columns {
		header = append(header, c)
	}
	t.AppendHeader(header)

	for i, values := range result.Rows {
		row := table.Row{i}
		for _, v := range values {
			row = append(row, formatValue(v))
		}
		t.AppendRow(row)
	}
	t.Render()

	return len(result.Rows), nil
}

// NewTable returns a table writer mirrored to w
func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.SetOutputMirror(w)
	return t
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
