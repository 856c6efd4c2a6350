package model

import (
	"errors"
	"fmt"
	"time"
)

// StageMetrics represents metrics for a specific pipeline stage
type StageMetrics struct {
	StageName        string        `json:"stage_name"`
	StartTime        time.Time     `json:"start_time"`
	EndTime          time.Time     `json:"end_time"`
	Duration         time.Duration `json:"duration"`
	RecordsProcessed int64         `json:"records_processed"`
	Status           string        `json:"status"` // "running", "completed", "failed"
}

// RunMetrics represents the outcome of one pipeline run
type RunMetrics struct {
	RunID         string         `json:"run_id"`
	StartTime     time.Time      `json:"start_time"`
	EndTime       time.Time      `json:"end_time"`
	Duration      time.Duration  `json:"duration"`
	Status        string         `json:"status"`
	Stages        []StageMetrics `json:"stages"`
	Extracted     int            `json:"extracted"`
	Dropped       map[string]int `json:"dropped"`
	Transformed   int            `json:"transformed"`
	Loaded        int            `json:"loaded"`
	QueryRows     int            `json:"query_rows"`
	Error         string         `json:"error,omitempty"`
	ErrorSeverity string         `json:"error_severity,omitempty"`
}

// ErrorKind classifies fatal pipeline errors
type ErrorKind string

const (
	KindNetwork        ErrorKind = "network"
	KindParseStructure ErrorKind = "parse_structure"
	KindNumericFormat  ErrorKind = "numeric_format"
	KindIO             ErrorKind = "io"
	KindLog            ErrorKind = "log"
)

// StageError is a fatal error raised by one pipeline stage
type StageError struct {
	Stage string
	Kind  ErrorKind
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// NewStageError wraps err, keeping an existing StageError untouched
func NewStageError(stage string, kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

// KindOf returns the kind of a StageError, or "" for any other error
func KindOf(err error) ErrorKind {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// Severity maps an error kind to a severity label
func Severity(kind ErrorKind) string {
	switch kind {
	case KindNetwork, KindParseStructure, KindNumericFormat, KindIO:
		return "critical"
	case KindLog:
		return "high"
	default:
		return "low"
	}
}
