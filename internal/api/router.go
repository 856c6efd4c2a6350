package api

import (
	"gdp-pipeline/docs"
	"gdp-pipeline/internal/api/handler"
	"gdp-pipeline/internal/store"
	"gdp-pipeline/pkg/router"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// RegisterRoutes wires the read-only countries API and its Swagger UI
func RegisterRoutes(r *router.Router, st *store.Store, table string, logger *zap.Logger) {
	h := handler.NewCountryHandler(st, table, logger)

	r.GET("/api/v1/countries", h.ListCountries)
	r.GET("/api/v1/countries/*", h.GetCountry)

	r.Mount("/swagger/", httpSwagger.Handler(
		httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
	))
}
