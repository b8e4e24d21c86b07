package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"plantcare-backend/internal/catalog"
	"plantcare-backend/internal/db"
	"plantcare-backend/internal/model"
	"plantcare-backend/internal/store"
	"plantcare-backend/internal/watering"
	"plantcare-backend/internal/weather"
)

type fakeWeatherAPI struct {
	snapshots map[string]*weather.Snapshot
	geo       map[string]*weather.GeoResult
}

func (f *fakeWeatherAPI) Current(_ context.Context, location string) (*weather.Snapshot, error) {
	if snap, ok := f.snapshots[location]; ok {
		return snap, nil
	}
	return nil, fmt.Errorf("no observation for %q", location)
}

func (f *fakeWeatherAPI) Search(_ context.Context, city string) (*weather.GeoResult, error) {
	if geo, ok := f.geo[city]; ok {
		return geo, nil
	}
	return nil, fmt.Errorf("no geocoding result for %q", city)
}

type fakeCatalogLookup struct {
	details map[string]*catalog.SpeciesDetail
	err     error
}

func (f *fakeCatalogLookup) FindByCommonName(_ context.Context, commonName string) (*catalog.SpeciesDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.details[commonName], nil
}

type fakeIngestion struct {
	state *model.BackfillState
	err   error
}

func (f *fakeIngestion) Run(context.Context) (*model.BackfillState, error) {
	return f.state, f.err
}

type apiFixture struct {
	router    *gin.Engine
	store     store.Store
	weather   *fakeWeatherAPI
	catalog   *fakeCatalogLookup
	ingestion *fakeIngestion
}

func setupAPI(t *testing.T) *apiFixture {
	gin.SetMode(gin.TestMode)

	testDB, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := testDB.DB()
		sqlDB.Close()
	})
	require.NoError(t, db.Migrate(testDB))

	f := &apiFixture{
		store:     store.NewGormStore(testDB),
		weather:   &fakeWeatherAPI{snapshots: map[string]*weather.Snapshot{}, geo: map[string]*weather.GeoResult{}},
		catalog:   &fakeCatalogLookup{details: map[string]*catalog.SpeciesDetail{}},
		ingestion: &fakeIngestion{},
	}

	handler := NewHandler(f.store, f.weather, f.catalog, watering.NewCalculator("default"),
		f.ingestion, "plants_backfill", &webpush.Options{VAPIDPublicKey: "test-public-key"})

	r := gin.New()
	api := r.Group("/api")
	{
		api.GET("/plants", handler.ListPlants)
		api.GET("/plants/:name", handler.GetPlant)
		api.POST("/plants", handler.CreatePlant)
		api.DELETE("/plants/:id", handler.DeletePlant)

		api.POST("/watering-schedule", handler.ComputeWateringSchedule)
		api.POST("/watering-events", handler.RecordWatering)
		api.GET("/users/plants", handler.ListUserPlantsWithSchedule)
		api.DELETE("/users/plants/:id", handler.DeleteUserPlant)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		api.POST("/admin/ingestion/run", handler.RunIngestion)
		api.GET("/admin/ingestion/status", handler.IngestionStatus)
		api.POST("/admin/ingestion/reset", handler.ResetIngestion)
	}
	f.router = r
	return f
}

// do performs a request as user 1 unless userID is empty.
func (f *apiFixture) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) seedPlant(t *testing.T, p *model.Plant) *model.Plant {
	_, err := f.store.UpsertPlant(context.Background(), p)
	require.NoError(t, err)
	return p
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
