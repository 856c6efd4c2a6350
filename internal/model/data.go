package model

import "time"

// Reasons a source row is dropped by the extraction filter
const (
	ReasonNoCells      = "no_cells"
	ReasonTooFewCells  = "too_few_cells"
	ReasonNoHyperlink  = "no_hyperlink"
	ReasonPlaceholder  = "placeholder_gdp"
	ReasonEmptyCountry = "empty_country"
)

// Placeholder is the token the source page uses for missing GDP data
const Placeholder = "—"

// DroppedRow records a source row rejected by the extraction filter
type DroppedRow struct {
	Index  int    `json:"index"` // position of the <tr> within the table body
	Reason string `json:"reason"`
}

// ExtractResult is the kept table plus everything the filter threw away
type ExtractResult struct {
	Table   RawTable     `json:"table"`
	Dropped []DroppedRow `json:"dropped"`
}

// DroppedBy counts dropped rows per reason
func (r ExtractResult) DroppedBy() map[string]int {
	counts := make(map[string]int)
	for _, d := range r.Dropped {
		counts[d.Reason]++
	}
	return counts
}

// ExportResult represents the result of a load operation
type ExportResult struct {
	Type        string    `json:"type"` // "csv", "database"
	Path        string    `json:"path"` // file path or table name
	RecordCount int       `json:"record_count"`
	Timestamp   time.Time `json:"timestamp"`
}
