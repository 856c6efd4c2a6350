package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"gdp-pipeline/internal/model"
	"gdp-pipeline/internal/progress"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const stageExtract = "extraction"

// ------------------- Extraction -------------------

// Extractor fetches the source page and turns the GDP table into a RawTable
type Extractor struct {
	http     *resty.Client
	progress progress.Logger
	logger   *zap.Logger
}

// NewExtractor creates an extractor. A nil client gets a fresh resty client without retries.
func NewExtractor(client *resty.Client, prog progress.Logger, logger *zap.Logger) *Extractor {
	if client == nil {
		client = resty.New().SetRetryCount(0)
	}
	return &Extractor{
		http:     client,
		progress: prog,
		logger:   logger.Named("extractor"),
	}
}

// Extract fetches sourceURL and returns the accepted rows of the GDP table body
// (the tbodyIndex-th <tbody> of the page) plus the rows the filter dropped.
func (e *Extractor) Extract(ctx context.Context, sourceURL string, columns []string, tbodyIndex int) (model.ExtractResult, error) {
	if err := e.progress.Log("Logging...... Extraction Process Started"); err != nil {
		return model.ExtractResult{}, model.NewStageError(stageExtract, model.KindLog, err)
	}

	body, err := e.fetch(ctx, sourceURL)
	if err != nil {
		return model.ExtractResult{}, model.NewStageError(stageExtract, model.KindNetwork, err)
	}

	result, err := ParseGDPTable(bytes.NewReader(body), columns, tbodyIndex)
	if err != nil {
		return model.ExtractResult{}, model.NewStageError(stageExtract, model.KindParseStructure, err)
	}

	e.logger.Info("GDP table extracted",
		zap.String("url", sourceURL),
		zap.Int("kept", result.Table.Len()),
		zap.Int("dropped", len(result.Dropped)),
		zap.Any("dropped_by_reason", result.DroppedBy()),
	)

	if err := e.progress.Log("Logging...... Extraction Process Complete"); err != nil {
		return model.ExtractResult{}, model.NewStageError(stageExtract, model.KindLog, err)
	}
	return result, nil
}

// fetch performs the single GET of the run; no retries, any non-2xx status is an error
func (e *Extractor) fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	e.logger.Debug("fetching source page", zap.String("url", sourceURL))

	res, err := e.http.R().
		SetContext(ctx).
		Get(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to GET %s: %w", sourceURL, err)
	}
	if res.IsError() || res.StatusCode() < 200 || res.StatusCode() > 299 {
		return nil, fmt.Errorf("failed to GET %s: unexpected status %s", sourceURL, res.Status())
	}
	return res.Body(), nil
}

// ParseGDPTable parses an HTML document and runs the row filter over its GDP table body
func ParseGDPTable(r io.Reader, columns []string, tbodyIndex int) (model.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return model.ExtractResult{}, fmt.Errorf("failed to parse html: %w", err)
	}

	tbody, err := SelectGDPTableBody(doc, tbodyIndex)
	if err != nil {
		return model.ExtractResult{}, err
	}

	return FilterRows(tbody, columns), nil
}

// SelectGDPTableBody picks the GDP table by position: the index-th <tbody> of the page
// (index 2 for the archived Wikipedia list).
func SelectGDPTableBody(doc *goquery.Document, index int) (*goquery.Selection, error) {
	bodies := doc.Find("tbody")
	if index < 0 || bodies.Length() <= index {
		return nil, fmt.Errorf("expected at least %d <tbody> elements, found %d", index+1, bodies.Length())
	}
	return bodies.Eq(index), nil
}
