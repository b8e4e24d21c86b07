package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"plantcare-backend/internal/catalog"
	"plantcare-backend/internal/model"
	"plantcare-backend/internal/store"
	"plantcare-backend/internal/watering"
	"plantcare-backend/internal/weather"
)

// WeatherAPI is the slice of the weather client the handlers need.
type WeatherAPI interface {
	Current(ctx context.Context, location string) (*weather.Snapshot, error)
	Search(ctx context.Context, city string) (*weather.GeoResult, error)
}

// CatalogLookup resolves a common name against the external catalog.
type CatalogLookup interface {
	FindByCommonName(ctx context.Context, commonName string) (*catalog.SpeciesDetail, error)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store       store.Store
	weather     WeatherAPI
	catalog     CatalogLookup
	calculator  *watering.Calculator
	ingestion   catalog.Ingestion
	processName string
	webpush     *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, w WeatherAPI, cl CatalogLookup, calc *watering.Calculator, ing catalog.Ingestion, processName string, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:       s,
		weather:     w,
		catalog:     cl,
		calculator:  calc,
		ingestion:   ing,
		processName: processName,
		webpush:     webpushOptions,
	}
}

// userID extracts the authenticated user from the X-User-ID header. Identity
// is issued by the external auth layer in front of this service; the handlers
// only consume it.
func userID(c *gin.Context) (int64, bool) {
	raw := c.GetHeader("X-User-ID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid X-User-ID header"})
		return 0, false
	}
	return id, true
}

// plantData maps a catalog entry to the strategy input.
func plantData(p *model.Plant) watering.PlantData {
	return watering.PlantData{
		CommonName:     p.CommonName,
		Family:         p.Family,
		FamilyFrench:   p.FamilyFrench,
		WateringLabel:  p.Watering,
		BenchmarkValue: p.BenchmarkValue,
		BenchmarkUnit:  p.BenchmarkUnit,
	}
}
