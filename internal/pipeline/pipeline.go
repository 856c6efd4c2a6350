package pipeline

import (
	"context"
	"fmt"
	"gdp-pipeline/internal/model"
	"gdp-pipeline/internal/progress"
	"gdp-pipeline/internal/query"
	"gdp-pipeline/internal/store"
	"gdp-pipeline/pkg/utils"
	"io"
	"os"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	stageOrchestrate = "orchestration"
	stageQuery       = "query"
)

// Deps are the collaborators of a run; zero fields get production defaults
type Deps struct {
	HTTPClient *resty.Client
	Progress   progress.Logger
	Logger     *zap.Logger
	Out        io.Writer // receives the query report
}

func (d Deps) withDefaults(cfg model.Config) Deps {
	if d.HTTPClient == nil {
		d.HTTPClient = resty.New().SetRetryCount(0)
		if cfg.HTTPTimeout > 0 {
			d.HTTPClient.SetTimeout(cfg.HTTPTimeout)
		}
	}
	if d.Progress == nil {
		d.Progress = progress.New(cfg.LogPath)
	}
	if d.Logger == nil {
		d.Logger = zap.L()
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	return d
}

// ------------------- Pipeline Runner -------------------

// Run executes extract → transform → load (CSV, database) → query once, in that order.
// The first failing stage aborts the run; sinks written before it are left in place.
func Run(ctx context.Context, cfg model.Config, deps Deps) (metrics model.RunMetrics, err error) {
	if err := cfg.Validate(); err != nil {
		return model.RunMetrics{}, fmt.Errorf("invalid config: %w", err)
	}
	deps = deps.withDefaults(cfg)

	tracker := NewRunTracker(deps.Logger)
	logger := tracker.Logger()
	logger.Info("starting pipeline", zap.String("source", cfg.SourceURL))

	// Defer function to handle status updates on error
	defer func() {
		if err != nil {
			metrics = tracker.Fail(err)
		}
	}()

	logStep := func(message string) error {
		if err := deps.Progress.Log(message); err != nil {
			return model.NewStageError(stageOrchestrate, model.KindLog, err)
		}
		return nil
	}

	extractor := NewExtractor(deps.HTTPClient, deps.Progress, logger)
	transformer := NewTransformer(deps.Progress, logger)
	loader := NewLoader(deps.Progress, logger)

	if err = logStep("Preliminaries complete. Initiating ETL process"); err != nil {
		return
	}

	// --- EXTRACTION STAGE ---
	tracker.StartStage(stageExtract)
	extracted, err := extractor.Extract(ctx, cfg.SourceURL, cfg.Columns, cfg.TableBodyIndex)
	if err != nil {
		return
	}
	tracker.RecordExtraction(extracted)
	tracker.EndStage(extracted.Table.Len())
	if err = logStep("Data extraction complete. Initiating Transformation process"); err != nil {
		return
	}

	// --- TRANSFORMATION STAGE ---
	tracker.StartStage(stageTransform)
	table, err := transformer.Transform(extracted.Table)
	if err != nil {
		return
	}
	tracker.RecordTransformed(table.Len())
	tracker.EndStage(table.Len())
	if err = logStep("Data transformation complete. Initiating loading process"); err != nil {
		return
	}

	// --- LOAD STAGE ---
	tracker.StartStage(stageLoad)
	if _, err = loader.LoadToFile(table, cfg.CSVPath); err != nil {
		return
	}
	if err = logStep("Data saved to CSV file"); err != nil {
		return
	}

	if err = utils.EnsureParentDir(cfg.DBPath); err != nil {
		err = model.NewStageError(stageLoad, model.KindIO, err)
		return
	}
	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		err = model.NewStageError(stageLoad, model.KindIO, err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("failed to close database", zap.Error(cerr))
		}
	}()
	if err = logStep("SQL Connection initiated."); err != nil {
		return
	}

	loaded, err := loader.LoadToDatabase(ctx, st, table, cfg.TableName)
	if err != nil {
		return
	}
	tracker.RecordLoaded(loaded.RecordCount)
	tracker.EndStage(loaded.RecordCount)
	if err = logStep("Data loaded to Database as table. Running the query"); err != nil {
		return
	}

	// --- QUERY STAGE ---
	tracker.StartStage(stageQuery)
	statement, err := query.Statement(cfg.TableName, cfg.QueryThreshold)
	if err != nil {
		return
	}
	rows, err := query.Run(ctx, deps.Out, st, statement)
	if err != nil {
		return
	}
	tracker.RecordQueryRows(rows)
	tracker.EndStage(rows)
	if err = logStep("Process Complete."); err != nil {
		return
	}

	return tracker.Complete(), nil
}
