package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantcare-backend/internal/model"
	"plantcare-backend/internal/weather"
)

func rainSnapshot() *weather.Snapshot {
	tempC := 15.0
	humidity := 85
	return &weather.Snapshot{
		Location: weather.Location{Name: "Paris"},
		Current: weather.Current{
			TempC:     &tempC,
			Humidity:  &humidity,
			Condition: weather.Condition{Text: "Light rain"},
		},
	}
}

func TestComputeWateringSchedule(t *testing.T) {
	f := setupAPI(t)
	f.seedPlant(t, &model.Plant{CommonName: "monstera", Watering: "average", BenchmarkValue: "7"})
	f.weather.snapshots["Paris"] = rainSnapshot()
	f.weather.geo["Paris"] = &weather.GeoResult{Name: "Paris", Country: "France", Lat: 48.8567, Lon: 2.3508}

	t.Run("requires identity", func(t *testing.T) {
		w := f.do(t, "POST", "/api/watering-schedule", "",
			map[string]string{"plant_common_name": "monstera", "city": "Paris"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown plant", func(t *testing.T) {
		w := f.do(t, "POST", "/api/watering-schedule", "1",
			map[string]string{"plant_common_name": "welwitschia", "city": "Paris"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("computes a weather-adjusted schedule", func(t *testing.T) {
		w := f.do(t, "POST", "/api/watering-schedule", "1",
			map[string]string{"plant_common_name": "monstera", "city": "Paris"})
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		schedule := body["watering_schedule"].(map[string]any)
		// Humid, cold and raining: the 7-day cadence stretches to 9.
		assert.Equal(t, float64(9), schedule["watering_frequency_days"])
		assert.Equal(t, float64(2), schedule["weather_adjustment_days"])
		assert.Equal(t, "normal", schedule["urgency"])
		assert.NotNil(t, body["weather_data"])

		// A fresh assignment counts as watered right now.
		assert.InDelta(t, 9*24, schedule["hours_until_watering"].(float64), 0.1)
	})

	t.Run("persists the assignment", func(t *testing.T) {
		ups, err := f.store.ListUserPlants(context.Background(), 1, "Paris")
		require.NoError(t, err)
		require.Len(t, ups, 1)
		assert.NotNil(t, ups[0].LastWateredAt)
		assert.NotNil(t, ups[0].NextWateringAt)

		// New assignments are geocoded once.
		require.NotNil(t, ups[0].Latitude)
		assert.InDelta(t, 48.8567, *ups[0].Latitude, 0.001)
		assert.Equal(t, "Paris", ups[0].LocationName)
	})

	t.Run("explicit last watered date wins", func(t *testing.T) {
		lastWatered := time.Now().UTC().Add(-8 * 24 * time.Hour).Format(time.RFC3339)
		w := f.do(t, "POST", "/api/watering-schedule", "1", map[string]any{
			"plant_common_name": "monstera",
			"city":              "Paris",
			"last_watered_at":   lastWatered,
		})
		require.Equal(t, http.StatusOK, w.Code)

		schedule := decodeBody(t, w)["watering_schedule"].(map[string]any)
		// Watered 8 days ago on an effective 9-day cadence: due in about a day.
		assert.InDelta(t, 24, schedule["hours_until_watering"].(float64), 0.5)
		assert.Equal(t, "today", schedule["urgency"])
	})

	t.Run("missing weather falls back to the nominal cadence", func(t *testing.T) {
		w := f.do(t, "POST", "/api/watering-schedule", "1",
			map[string]string{"plant_common_name": "monstera", "city": "Atlantis"})
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		schedule := body["watering_schedule"].(map[string]any)
		assert.Equal(t, float64(7), schedule["watering_frequency_days"])
		assert.Equal(t, float64(0), schedule["weather_adjustment_days"])
		assert.Nil(t, body["weather_data"])
	})
}

func TestRecordWatering(t *testing.T) {
	f := setupAPI(t)
	plant := f.seedPlant(t, &model.Plant{CommonName: "ficus", BenchmarkValue: "5"})

	watered := time.Now().UTC().Add(-6 * 24 * time.Hour)
	up := &model.UserPlant{UserID: 1, PlantID: plant.ID, City: "Paris", LastWateredAt: &watered}
	require.NoError(t, f.store.UpsertUserPlant(context.Background(), up))

	t.Run("untracked plant", func(t *testing.T) {
		w := f.do(t, "POST", "/api/watering-events", "1",
			map[string]any{"plant_id": plant.ID, "city": "Lyon"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("stamps the watering and recomputes", func(t *testing.T) {
		w := f.do(t, "POST", "/api/watering-events", "1",
			map[string]any{"plant_id": plant.ID, "city": "Paris"})
		require.Equal(t, http.StatusOK, w.Code)

		schedule := decodeBody(t, w)["watering_schedule"].(map[string]any)
		assert.InDelta(t, 5*24, schedule["hours_until_watering"].(float64), 0.5)

		reloaded, err := f.store.GetUserPlant(context.Background(), 1, plant.ID, "Paris")
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().UTC(), *reloaded.LastWateredAt, time.Minute)
	})
}

func TestListUserPlantsWithSchedule(t *testing.T) {
	f := setupAPI(t)
	ctx := context.Background()
	now := time.Now().UTC()

	thirsty := f.seedPlant(t, &model.Plant{CommonName: "basil", BenchmarkValue: "3"})
	relaxed := f.seedPlant(t, &model.Plant{CommonName: "cactus", BenchmarkValue: "14"})

	oldWatering := now.Add(-5 * 24 * time.Hour)
	recent := now.Add(-time.Hour)
	require.NoError(t, f.store.UpsertUserPlant(ctx, &model.UserPlant{
		UserID: 1, PlantID: relaxed.ID, City: "Paris", LastWateredAt: &recent}))
	require.NoError(t, f.store.UpsertUserPlant(ctx, &model.UserPlant{
		UserID: 1, PlantID: thirsty.ID, City: "Paris", LastWateredAt: &oldWatering}))

	w := f.do(t, "GET", "/api/users/plants", "1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result []struct {
		Plant struct {
			CommonName string `json:"common_name"`
		} `json:"plant"`
		WateringSchedule struct {
			HoursUntil float64 `json:"hours_until_watering"`
			Urgency    string  `json:"urgency"`
		} `json:"watering_schedule"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result, 2)

	// Most urgent first: the overdue basil before the freshly watered cactus.
	assert.Equal(t, "basil", result[0].Plant.CommonName)
	assert.Equal(t, "urgent", result[0].WateringSchedule.Urgency)
	assert.Equal(t, "cactus", result[1].Plant.CommonName)
	assert.True(t, result[0].WateringSchedule.HoursUntil < result[1].WateringSchedule.HoursUntil)
}

func TestDeleteUserPlant(t *testing.T) {
	f := setupAPI(t)
	plant := f.seedPlant(t, &model.Plant{CommonName: "mint"})

	up := &model.UserPlant{UserID: 1, PlantID: plant.ID, City: "Paris"}
	require.NoError(t, f.store.UpsertUserPlant(context.Background(), up))

	t.Run("another user cannot detach it", func(t *testing.T) {
		w := f.do(t, "DELETE", fmt.Sprintf("/api/users/plants/%d", up.ID), "2", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("owner detaches it", func(t *testing.T) {
		w := f.do(t, "DELETE", fmt.Sprintf("/api/users/plants/%d", up.ID), "1", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		w := f.do(t, "DELETE", "/api/users/plants/abc", "1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
