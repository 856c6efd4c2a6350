package pipeline

import (
	"gdp-pipeline/internal/model"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// FilterRows walks every row of a table body in document order and keeps the rows that
// name a country through a hyperlink in the first cell and carry a GDP figure in the
// third. Rejected rows are returned, not logged.
func FilterRows(tbody *goquery.Selection, columns []string) model.ExtractResult {
	result := model.ExtractResult{
		Table: model.RawTable{
			Columns: append([]string(nil), columns...),
			Records: []model.RawRecord{},
		},
	}

	tbody.Find("tr").Each(func(i int, row *goquery.Selection) {
		rec, reason := validateRow(row)
		if reason != "" {
			result.Dropped = append(result.Dropped, model.DroppedRow{Index: i, Reason: reason})
			return
		}
		result.Table.Records = append(result.Table.Records, rec)
	})

	return result
}

// validateRow returns the extracted record, or the reason the row is rejected
func validateRow(row *goquery.Selection) (model.RawRecord, string) {
	cells := row.Find("td")
	switch {
	case cells.Length() == 0:
		return model.RawRecord{}, model.ReasonNoCells
	case cells.Length() < 3:
		return model.RawRecord{}, model.ReasonTooFewCells
	}

	link := cells.Eq(0).Find("a")
	if link.Length() == 0 {
		return model.RawRecord{}, model.ReasonNoHyperlink
	}

	// judge both the rendered cell and the value that would be kept
	gdpCell := cells.Eq(2)
	gdp := leadingText(gdpCell)
	if IsPlaceholder(gdpCell.Text()) || IsPlaceholder(gdp) {
		return model.RawRecord{}, model.ReasonPlaceholder
	}

	country := strings.TrimSpace(link.First().Text())
	if country == "" {
		return model.RawRecord{}, model.ReasonEmptyCountry
	}

	return model.RawRecord{
		Country: country,
		GDP:     gdp,
	}, ""
}

// IsPlaceholder reports whether rendered cell text is the missing-data token
func IsPlaceholder(text string) bool {
	return strings.TrimSpace(text) == model.Placeholder
}

// leadingText returns the text of the first child node of a cell, so footnote markers
// that follow the figure (e.g. <sup>[n 1]</sup>) are not part of the value
func leadingText(cell *goquery.Selection) string {
	node := cell.Get(0).FirstChild
	if node == nil {
		return ""
	}
	if node.Type == html.TextNode {
		return strings.TrimSpace(node.Data)
	}
	return strings.TrimSpace(goquery.NewDocumentFromNode(node).Text())
}
