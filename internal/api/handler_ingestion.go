package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"plantcare-backend/internal/catalog"
	"plantcare-backend/internal/model"
	"plantcare-backend/internal/store"
)

// RunIngestion handles POST /api/admin/ingestion/run: one synchronous catalog
// backfill pass, resumed from the stored checkpoint.
func (h *Handler) RunIngestion(c *gin.Context) {
	state, err := h.ingestion.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, catalog.ErrIngestionRunning) {
			c.JSON(http.StatusConflict, gin.H{"error": "an ingestion pass is already running"})
			return
		}
		var rl *catalog.RateLimitError
		if errors.As(err, &rl) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message": rl.Error(),
				"state":   ingestionStatus(state),
			})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
			"state": ingestionStatus(state),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "ingestion pass completed",
		"state":   ingestionStatus(state),
	})
}

// IngestionStatus handles GET /api/admin/ingestion/status.
func (h *Handler) IngestionStatus(c *gin.Context) {
	state, err := h.store.GetBackfillState(c.Request.Context(), h.processName)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"process_name": h.processName, "started": false})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ingestionStatus(state))
}

// ResetIngestion handles POST /api/admin/ingestion/reset: it discards the
// checkpoint so the next pass restarts from the first page.
func (h *Handler) ResetIngestion(c *gin.Context) {
	ctx := c.Request.Context()

	state, err := h.store.GetOrCreateBackfillState(ctx, h.processName)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	state.Reset()
	if err := h.store.SaveBackfillState(ctx, state); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "checkpoint reset",
		"state":   ingestionStatus(state),
	})
}

func ingestionStatus(state *model.BackfillState) gin.H {
	if state == nil {
		return nil
	}
	return gin.H{
		"process_name":       state.ProcessName,
		"started":            true,
		"last_page":          state.LastPage,
		"last_plant_id":      state.LastPlantID,
		"processed_items":    state.ProcessedItems,
		"total_processed":    state.TotalProcessed,
		"completed":          state.IsCompleted,
		"started_at":         state.StartedAt,
		"last_checkpoint_at": state.LastCheckpointAt,
		"metadata":           state.Meta(),
	}
}
