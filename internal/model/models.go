package model

// Column labels of the GDP table
const (
	ColumnCountry     = "Country"
	ColumnGDPMillions = "GDP_USD_millions"
	ColumnGDPBillions = "GDP_USD_billions"
)

// RawRecord is one accepted row of the source page, GDP still in its currency format
type RawRecord struct {
	Country string `json:"country"`
	GDP     string `json:"gdp"` // e.g. "26,854,599"
}

// RawTable is the ordered output of the extraction stage
type RawTable struct {
	Columns []string    `json:"columns"`
	Records []RawRecord `json:"records"`
}

// Record is one transformed row, GDP in USD billions
type Record struct {
	Country string  `json:"country" db:"Country"`
	GDP     float64 `json:"gdp_usd_billions" db:"GDP_USD_billions"`
}

// Table is the ordered output of the transformation stage
type Table struct {
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

// Len returns the number of rows
func (t RawTable) Len() int { return len(t.Records) }

// Len returns the number of rows
func (t Table) Len() int { return len(t.Records) }
