package pipeline

import (
	"gdp-pipeline/internal/model"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunTracker records stage timings and row counts of a single run.
// The pipeline is sequential, so the tracker is not safe for concurrent use.
type RunTracker struct {
	metrics model.RunMetrics
	current int // index into metrics.Stages of the running stage, -1 if none
	now     func() time.Time
	logger  *zap.Logger
}

// NewRunTracker starts tracking a run under a fresh run ID
func NewRunTracker(logger *zap.Logger) *RunTracker {
	t := &RunTracker{current: -1, now: time.Now}
	t.metrics = model.RunMetrics{
		RunID:     uuid.New().String(),
		StartTime: t.now(),
		Status:    "running",
		Dropped:   make(map[string]int),
	}
	t.logger = logger.With(zap.String("run_id", t.metrics.RunID))
	return t
}

// RunID returns the identifier of the run
func (t *RunTracker) RunID() string { return t.metrics.RunID }

// Logger returns a logger tagged with the run ID
func (t *RunTracker) Logger() *zap.Logger { return t.logger }

// StartStage marks the start of a pipeline stage
func (t *RunTracker) StartStage(stage string) {
	t.metrics.Stages = append(t.metrics.Stages, model.StageMetrics{
		StageName: stage,
		StartTime: t.now(),
		Status:    "running",
	})
	t.current = len(t.metrics.Stages) - 1
	t.logger.Debug("stage started", zap.String("stage", stage))
}

// EndStage marks the end of the running stage
func (t *RunTracker) EndStage(recordsProcessed int) {
	if t.current < 0 {
		return
	}
	s := &t.metrics.Stages[t.current]
	s.EndTime = t.now()
	s.Duration = s.EndTime.Sub(s.StartTime)
	s.RecordsProcessed = int64(recordsProcessed)
	s.Status = "completed"
	t.current = -1

	t.logger.Debug("stage completed",
		zap.String("stage", s.StageName),
		zap.Int64("records", s.RecordsProcessed),
		zap.Duration("duration", s.Duration),
	)
}

// RecordExtraction stores the kept and dropped counts of the extraction filter
func (t *RunTracker) RecordExtraction(result model.ExtractResult) {
	t.metrics.Extracted = result.Table.Len()
	for reason, n := range result.DroppedBy() {
		t.metrics.Dropped[reason] += n
	}
}

// RecordTransformed stores the transformed row count
func (t *RunTracker) RecordTransformed(n int) { t.metrics.Transformed = n }

// RecordLoaded stores the row count written to the database
func (t *RunTracker) RecordLoaded(n int) { t.metrics.Loaded = n }

// RecordQueryRows stores the number of rows the report query returned
func (t *RunTracker) RecordQueryRows(n int) { t.metrics.QueryRows = n }

// Complete marks the run as completed
func (t *RunTracker) Complete() model.RunMetrics {
	t.finish("completed")
	t.logger.Info("pipeline completed",
		zap.Duration("duration", t.metrics.Duration),
		zap.Int("extracted", t.metrics.Extracted),
		zap.Any("dropped", t.metrics.Dropped),
		zap.Int("transformed", t.metrics.Transformed),
		zap.Int("loaded", t.metrics.Loaded),
		zap.Int("query_rows", t.metrics.QueryRows),
	)
	return t.Metrics()
}

// Fail marks the run and its running stage as failed
func (t *RunTracker) Fail(err error) model.RunMetrics {
	if t.current >= 0 {
		s := &t.metrics.Stages[t.current]
		s.EndTime = t.now()
		s.Duration = s.EndTime.Sub(s.StartTime)
		s.Status = "failed"
		t.current = -1
	}
	t.finish("failed")
	t.metrics.Error = err.Error()
	t.metrics.ErrorSeverity = model.Severity(model.KindOf(err))

	t.logger.Error("pipeline failed",
		zap.Error(err),
		zap.String("severity", t.metrics.ErrorSeverity),
		zap.Duration("duration", t.metrics.Duration),
	)
	return t.Metrics()
}

// Metrics returns a copy of the current metrics
func (t *RunTracker) Metrics() model.RunMetrics {
	m := t.metrics
	m.Stages = append([]model.StageMetrics(nil), t.metrics.Stages...)
	m.Dropped = make(map[string]int, len(t.metrics.Dropped))
	for k, v := range t.metrics.Dropped {
		m.Dropped[k] = v
	}
	return m
}

func (t *RunTracker) finish(status string) {
	t.metrics.EndTime = t.now()
	t.metrics.Duration = t.metrics.EndTime.Sub(t.metrics.StartTime)
	t.metrics.Status = status
}
