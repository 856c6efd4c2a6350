package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gdp-pipeline/internal/model"
	"gdp-pipeline/internal/store"
	"gdp-pipeline/pkg/utils"

	"go.uber.org/zap"
)

const countriesPrefix = "/api/v1/countries/"

// CountryHandler serves the loaded GDP table read-only
type CountryHandler struct {
	store  *store.Store
	table  string
	logger *zap.Logger
}

// CountryList is the response body of ListCountries
type CountryList struct {
	Table     string         `json:"table"`
	MinGDP    float64        `json:"min_gdp_usd_billions"`
	Count     int            `json:"count"`
	Countries []model.Record `json:"countries"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

func NewCountryHandler(st *store.Store, table string, logger *zap.Logger) *CountryHandler {
	return &CountryHandler{store: st, table: table, logger: logger.Named("countries")}
}

// ListCountries lists the loaded countries
// @Summary List countries
// @Description List every loaded country whose GDP (USD billions) is at least min, in load order
// @Tags countries
// @Produce json
// @Param min query number false "Minimum GDP in USD billions" default(0)
// @Success 200 {object} CountryList
// @Failure 400 {object} ErrorResponse "Invalid min parameter"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /countries [get]
func (h *CountryHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	minGDP, err := utils.ParseThreshold(r.URL.Query().Get("min"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.store.ListCountries(r.Context(), h.table, minGDP)
	if err != nil {
		h.logger.Error("failed to list countries", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch countries")
		return
	}
	if records == nil {
		records = []model.Record{}
	}

	writeJSON(w, http.StatusOK, CountryList{
		Table:     h.table,
		MinGDP:    minGDP,
		Count:     len(records),
		Countries: records,
	})
}

// GetCountry retrieves one country
// @Summary Get country
// @Description Retrieve the GDP of a single country by its exact name
// @Tags countries
// @Produce json
// @Param name path string true "Country name"
// @Success 200 {object} model.Record
// @Failure 400 {object} ErrorResponse "Missing country name"
// @Failure 404 {object} ErrorResponse "Country not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /countries/{name} [get]
func (h *CountryHandler) GetCountry(w http.ResponseWriter, r *http.Request) {
	// Extract country name from URL path
	path := r.URL.Path
	if !strings.HasPrefix(path, countriesPrefix) {
		writeError(w, http.StatusBadRequest, "Invalid path")
		return
	}

	name := path[len(countriesPrefix):]
	if name == "" {
		writeError(w, http.StatusBadRequest, "Country name is required")
		return
	}

	rec, err := h.store.GetCountry(r.Context(), h.table, name)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Country not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get country", zap.String("country", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch country")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
