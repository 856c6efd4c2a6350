package model

import (
	"errors"
	"time"
)

// Config holds every fixed parameter of a pipeline run.
// The pipeline never reads globals; tests substitute fields (e.g. a fixture URL).
type Config struct {
	SourceURL      string        `json:"sourceUrl"`
	Columns        []string      `json:"columns"`        // extraction schema: Country, GDP (millions)
	TableBodyIndex int           `json:"tableBodyIndex"` // which <tbody> of the page holds the GDP table
	CSVPath        string        `json:"csvPath"`
	DBPath         string        `json:"dbPath"`
	TableName      string        `json:"tableName"`
	LogPath        string        `json:"logPath"`
	QueryThreshold float64       `json:"queryThreshold"` // USD billions
	HTTPTimeout    time.Duration `json:"httpTimeout"`    // 0 means no timeout
	APIAddr        string        `json:"apiAddr"`
}

// DefaultConfig returns the constants the pipeline runs with
func DefaultConfig() Config {
	return Config{
		SourceURL:      "https://web.archive.org/web/20230902185326/https://en.wikipedia.org/wiki/List_of_countries_by_GDP_%28nominal%29",
		Columns:        []string{ColumnCountry, ColumnGDPMillions},
		TableBodyIndex: 2,
		CSVPath:        "./Countries_by_GDP.csv",
		DBPath:         "World_Economies.db",
		TableName:      "Countries_by_GDP",
		LogPath:        "./etl_project_log.txt",
		QueryThreshold: 100,
		APIAddr:        ":8080",
	}
}

// Validate ensures all required configuration is present and valid
func (c Config) Validate() error {
	if c.SourceURL == "" {
		return errors.New("source url is required")
	}
	if len(c.Columns) != 2 {
		return errors.New("exactly two columns (country, gdp) are required")
	}
	if c.TableBodyIndex < 0 {
		return errors.New("table body index cannot be negative")
	}
	if c.CSVPath == "" || c.DBPath == "" || c.LogPath == "" {
		return errors.New("csv, database and log paths are required")
	}
	if c.TableName == "" {
		return errors.New("table name is required")
	}
	return nil
}
