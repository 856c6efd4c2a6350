package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"gdp-pipeline/internal/model"
	"gdp-pipeline/internal/store"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const tableName = "Countries_by_GDP"

func newHandler(t *testing.T) *CountryHandler {
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "World_Economies.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	require.NoError(t, st.ReplaceTable(context.Background(), tableName, model.Table{
		Columns: []string{model.ColumnCountry, model.ColumnGDPBillions},
		Records: []model.Record{
			{Country: "United States", GDP: 26854.6},
			{Country: "Tuvalu", GDP: 0.06},
			{Country: "China", GDP: 19373.59},
		},
	}))
	return NewCountryHandler(st, tableName, zaptest.NewLogger(t))
}

func TestListCountries(t *testing.T) {
	h := newHandler(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all", "", []string{"United States", "Tuvalu", "China"}},
		{"threshold", "?min=100", []string{"United States", "China"}},
		{"none", "?min=1000000", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ListCountries(rec, httptest.NewRequest(http.MethodGet, "/api/v1/countries"+tt.query, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body CountryList
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			require.Equal(t, tableName, body.Table)
			require.Equal(t, len(tt.want), body.Count)

			got := []string{}
			for _, c := range body.Countries {
				got = append(got, c.Country)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("countries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListCountries_BadThreshold(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler(t).ListCountries(rec, httptest.NewRequest(http.MethodGet, "/api/v1/countries?min=lots", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Contains(t, body.Error, "lots")
}

func TestListCountries_MissingTable(t *testing.T) {
	h := newHandler(t)
	h.table = "Other"

	rec := httptest.NewRecorder()
	h.ListCountries(rec, httptest.NewRequest(http.MethodGet, "/api/v1/countries", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetCountry(t *testing.T) {
	h := newHandler(t)

	rec := httptest.NewRecorder()
	h.GetCountry(rec, httptest.NewRequest(http.MethodGet, "/api/v1/countries/United%20States", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Record
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Equal(t, model.Record{Country: "United States", GDP: 26854.6}, got)

	rec = httptest.NewRecorder()
	h.GetCountry(rec, httptest.NewRequest(http.MethodGet, "/api/v1/countries/Atlantis", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.GetCountry(rec, httptest.NewRequest(http.MethodGet, "/api/v1/countries/", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
