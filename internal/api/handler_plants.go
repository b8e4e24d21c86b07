package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"plantcare-backend/internal/catalog"
	"plantcare-backend/internal/model"
	"plantcare-backend/internal/store"
	"plantcare-backend/internal/translate"
)

// ListPlants handles GET /api/plants.
func (h *Handler) ListPlants(c *gin.Context) {
	plants, err := h.store.ListPlants(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve plants"})
		return
	}
	c.JSON(http.StatusOK, plants)
}

// GetPlant handles GET /api/plants/:name.
func (h *Handler) GetPlant(c *gin.Context) {
	plant, err := h.store.GetPlantByCommonName(c.Request.Context(), c.Param("name"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "plant not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve plant"})
		return
	}
	c.JSON(http.StatusOK, plant)
}

type createPlantRequest struct {
	CommonName string `json:"common_name" binding:"required"`
	City       string `json:"city"`
}

// CreatePlant handles POST /api/plants: it pulls the species record from the
// external catalog, stores it locally and returns the new entry together with
// the weather of the given city.
func (h *Handler) CreatePlant(c *gin.Context) {
	var req createPlantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	var plant *model.Plant
	detail, err := h.catalog.FindByCommonName(ctx, req.CommonName)
	if err != nil {
		var rl *catalog.RateLimitError
		if errors.As(err, &rl) {
			c.JSON(http.StatusTooManyRequests, gin.H{"message": rl.Error()})
			return
		}
		log.Printf("Warning: catalog lookup failed for %q: %v", req.CommonName, err)
	}
	if detail != nil {
		plant = catalog.NormalizePlant(detail)
	} else {
		// Not in the catalog (or catalog unreachable): track it by name only.
		plant = &model.Plant{CommonName: req.CommonName}
	}

	if _, err := h.store.UpsertPlant(ctx, plant); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if translate.Enrich(plant) {
		if err := h.store.UpdatePlant(ctx, plant); err != nil {
			log.Printf("Warning: failed to save enrichment for %q: %v", plant.CommonName, err)
		}
	}

	var snapshot any
	if req.City != "" {
		if snap, err := h.weather.Current(ctx, req.City); err == nil {
			snapshot = snap
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"plant":   plant,
		"weather": snapshot,
	})
}

// DeletePlant handles DELETE /api/plants/:id. Administrative action; the core
// never deletes catalog entries.
func (h *Handler) DeletePlant(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid plant ID"})
		return
	}

	err = h.store.DeletePlant(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "plant not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
