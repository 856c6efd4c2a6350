package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"gdp-pipeline/internal/model"
	"gdp-pipeline/internal/progress"
	"gdp-pipeline/internal/store"
	"gdp-pipeline/pkg/utils"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const stageLoad = "load"

// ------------------- Load -------------------

// Loader writes a transformed table to its sinks. It never mutates the table.
type Loader struct {
	progress progress.Logger
	logger   *zap.Logger
}

// NewLoader creates a loader
func NewLoader(prog progress.Logger, logger *zap.Logger) *Loader {
	return &Loader{progress: prog, logger: logger.Named("loader")}
}

// LoadToFile writes table as CSV to path, replacing any existing file.
// Layout: a header with a blank leading cell, then "<index>,<country>,<gdp>" rows.
func (l *Loader) LoadToFile(table model.Table, path string) (model.ExportResult, error) {
	if err := writeCSV(table, path); err != nil {
		return model.ExportResult{}, model.NewStageError(stageLoad, model.KindIO, err)
	}

	result := model.ExportResult{
		Type:        "csv",
		Path:        path,
		RecordCount: table.Len(),
		Timestamp:   time.Now(),
	}
	fields := []zap.Field{zap.String("path", path), zap.Int("records", result.RecordCount)}
	if size, err := utils.FileSize(path); err == nil {
		fields = append(fields, zap.Int64("bytes", size))
	}
	l.logger.Info("table written to csv", fields...)

	if err := l.progress.Log("Logging...... Load to CSV Process Completed"); err != nil {
		return result, model.NewStageError(stageLoad, model.KindLog, err)
	}
	return result, nil
}

// LoadToDatabase replaces tableName in st with the rows of table, without the index column
func (l *Loader) LoadToDatabase(ctx context.Context, st *store.Store, table model.Table, tableName string) (model.ExportResult, error) {
	if err := st.ReplaceTable(ctx, tableName, table); err != nil {
		return model.ExportResult{}, model.NewStageError(stageLoad, model.KindIO, err)
	}

	result := model.ExportResult{
		Type:        "database",
		Path:        tableName,
		RecordCount: table.Len(),
		Timestamp:   time.Now(),
	}
	l.logger.Info("table written to database",
		zap.String("db", st.Path()),
		zap.String("table", tableName),
		zap.Int("records", result.RecordCount),
	)

	if err := l.progress.Log("Logging...... Load to SQL Database Process Completed"); err != nil {
		return result, model.NewStageError(stageLoad, model.KindLog, err)
	}
	return result, nil
}

func writeCSV(table model.Table, path string) error {
	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := append([]string{""}, table.Columns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, rec := range table.Records {
		row := []string{
			strconv.Itoa(i),
			rec.Country,
			FormatGDP(rec.GDP),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return file.Close()
}

// FormatGDP renders a billions value with the shortest exact representation
func FormatGDP(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
