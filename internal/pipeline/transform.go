package pipeline

import (
	"fmt"
	"gdp-pipeline/internal/model"
	"gdp-pipeline/internal/progress"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const stageTransform = "transformation"

// ------------------- Transformation -------------------

// Transformer converts GDP figures from USD millions strings to USD billions
type Transformer struct {
	progress progress.Logger
	logger   *zap.Logger
}

// NewTransformer creates a transformer
func NewTransformer(prog progress.Logger, logger *zap.Logger) *Transformer {
	return &Transformer{progress: prog, logger: logger.Named("transformer")}
}

// Transform returns a new table with one record per input record, GDP in billions
// rounded to 2 decimals and the GDP column renamed accordingly. A single malformed
// figure fails the whole stage.
func (t *Transformer) Transform(raw model.RawTable) (model.Table, error) {
	if err := t.progress.Log("Logging...... Transformation Process Started"); err != nil {
		return model.Table{}, model.NewStageError(stageTransform, model.KindLog, err)
	}

	out := model.Table{
		Columns: make([]string, len(raw.Columns)),
		Records: make([]model.Record, 0, raw.Len()),
	}
	for i, c := range raw.Columns {
		out.Columns[i] = RenameUnitColumn(c)
	}

	for i, rec := range raw.Records {
		millions, err := ParseMillions(rec.GDP)
		if err != nil {
			return model.Table{}, model.NewStageError(stageTransform, model.KindNumericFormat,
				fmt.Errorf("row %d (%s): %w", i, rec.Country, err))
		}
		out.Records = append(out.Records, model.Record{
			Country: rec.Country,
			GDP:     ToBillions(millions),
		})
	}

	t.logger.Info("GDP converted to billions", zap.Int("records", out.Len()))

	if err := t.progress.Log("Logging...... Transformation Process Completed"); err != nil {
		return model.Table{}, model.NewStageError(stageTransform, model.KindLog, err)
	}
	return out, nil
}

// ParseMillions parses a comma-grouped figure such as "26,854,599"
func ParseMillions(s string) (float64, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed GDP value %q: %w", s, err)
	}
	return v, nil
}

// ToBillions divides by 1000 and rounds to 2 decimals, half to even like numpy.round
func ToBillions(millions float64) float64 {
	return math.RoundToEven(millions/1000*100) / 100
}

// RenameUnitColumn turns a "_millions" label into its "_billions" counterpart
func RenameUnitColumn(label string) string {
	if strings.HasSuffix(label, "_millions") {
		return strings.TrimSuffix(label, "_millions") + "_billions"
	}
	return label
}
