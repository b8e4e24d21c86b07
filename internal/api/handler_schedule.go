package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"plantcare-backend/internal/model"
	"plantcare-backend/internal/store"
	"plantcare-backend/internal/watering"
	"plantcare-backend/internal/weather"
)

type scheduleRequest struct {
	PlantCommonName     string         `json:"plant_common_name" binding:"required"`
	City                string         `json:"city" binding:"required"`
	LastWateredAt       *time.Time     `json:"last_watered_at"`
	WateringPreferences map[string]any `json:"watering_preferences"`
}

// ComputeWateringSchedule handles POST /api/watering-schedule: it attaches
// (or refreshes) the user's plant at the given city and computes the next
// watering adjusted for the live weather.
func (h *Handler) ComputeWateringSchedule(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	plant, err := h.store.GetPlantByCommonName(ctx, req.PlantCommonName)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "plant not found in the local catalog"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	snapshot := h.fetchWeather(ctx, req.City)

	existing, err := h.store.GetUserPlant(ctx, uid, plant.ID, req.City)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Last-watered policy: an explicit date wins; a brand-new assignment is
	// assumed watered right now (the user is tracking it at the moment of
	// watering); an existing assignment keeps its recorded date.
	var lastWateredAt *time.Time
	switch {
	case req.LastWateredAt != nil:
		lastWateredAt = req.LastWateredAt
	case existing == nil:
		now := time.Now().UTC()
		lastWateredAt = &now
	default:
		lastWateredAt = existing.LastWateredAt
	}

	// Existing assignment with no recorded watering at all: estimate that the
	// plant was watered half a cycle ago.
	if lastWateredAt == nil {
		base := watering.ExtractBaseDays(plant.BenchmarkValue)
		estimated := time.Now().UTC().Add(-time.Duration(base) * 12 * time.Hour)
		lastWateredAt = &estimated
	}

	up := &model.UserPlant{
		UserID:        uid,
		PlantID:       plant.ID,
		City:          req.City,
		LastWateredAt: lastWateredAt,
	}
	if existing != nil {
		up.Latitude = existing.Latitude
		up.Longitude = existing.Longitude
		up.LocationName = existing.LocationName
	} else if geo, err := h.weather.Search(ctx, req.City); err == nil {
		up.Latitude = &geo.Lat
		up.Longitude = &geo.Lon
		up.LocationName = geo.Name
	}
	if len(req.WateringPreferences) > 0 {
		if raw, err := json.Marshal(req.WateringPreferences); err == nil {
			up.WateringPreferences = string(raw)
		}
	} else if existing != nil {
		up.WateringPreferences = existing.WateringPreferences
	}

	schedule := h.calculator.NextWatering(plantData(plant), snapshot, lastWateredAt)
	up.NextWateringAt = &schedule.NextWateringAt

	if err := h.store.UpsertUserPlant(ctx, up); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	up.Plant = *plant

	c.JSON(http.StatusOK, gin.H{
		"user_plant":        up,
		"watering_schedule": schedule,
		"weather_data":      snapshot,
	})
}

type wateringEventRequest struct {
	PlantID   int64      `json:"plant_id" binding:"required"`
	City      string     `json:"city" binding:"required"`
	WateredAt *time.Time `json:"watered_at"`
}

// RecordWatering handles POST /api/watering-events: it stamps the watering
// time on the user's plant and returns the recomputed schedule.
func (h *Handler) RecordWatering(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req wateringEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	up, err := h.store.GetUserPlant(ctx, uid, req.PlantID, req.City)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "this plant is not tracked for this city"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	wateredAt := time.Now().UTC()
	if req.WateredAt != nil {
		wateredAt = *req.WateredAt
	}
	up.LastWateredAt = &wateredAt

	snapshot := h.fetchWeather(ctx, req.City)
	schedule := h.calculator.NextWatering(plantData(&up.Plant), snapshot, up.LastWateredAt)
	up.NextWateringAt = &schedule.NextWateringAt

	if err := h.store.UpsertUserPlant(ctx, up); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":            "watering recorded",
		"user_plant":         up,
		"next_watering_date": schedule.NextWateringAt,
		"watering_schedule":  schedule,
	})
}

// userPlantWithSchedule is one entry of the urgency-sorted listing.
type userPlantWithSchedule struct {
	Plant            model.Plant       `json:"plant"`
	UserPlantInfo    model.UserPlant   `json:"user_plant_info"`
	WateringSchedule watering.Schedule `json:"watering_schedule"`
	WeatherData      *weather.Snapshot `json:"weather_data"`
}

// ListUserPlantsWithSchedule handles GET /api/users/plants: all plants the
// user tracks, each with its computed schedule, most urgent first.
func (h *Handler) ListUserPlantsWithSchedule(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	userPlants, err := h.store.ListUserPlants(ctx, uid, c.Query("city"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := make([]userPlantWithSchedule, 0, len(userPlants))
	for _, up := range userPlants {
		snapshot := h.fetchWeather(ctx, up.City)
		schedule := h.calculator.NextWatering(plantData(&up.Plant), snapshot, up.LastWateredAt)
		result = append(result, userPlantWithSchedule{
			Plant:            up.Plant,
			UserPlantInfo:    up,
			WateringSchedule: schedule,
			WeatherData:      snapshot,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].WateringSchedule.HoursUntil < result[j].WateringSchedule.HoursUntil
	})

	c.JSON(http.StatusOK, result)
}

// DeleteUserPlant handles DELETE /api/users/plants/:id (detach a plant).
func (h *Handler) DeleteUserPlant(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user plant ID"})
		return
	}

	err = h.store.DeleteUserPlant(c.Request.Context(), uid, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user plant not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// fetchWeather returns the current snapshot for a city, or nil when the
// weather API is unavailable. Schedule computation handles nil by falling
// back to neutral defaults.
func (h *Handler) fetchWeather(ctx context.Context, city string) *weather.Snapshot {
	snap, err := h.weather.Current(ctx, city)
	if err != nil {
		log.Printf("Warning: no weather for %q: %v", city, err)
		return nil
	}
	return snap
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
