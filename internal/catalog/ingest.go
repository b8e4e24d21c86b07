package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"plantcare-backend/config"
	"plantcare-backend/internal/model"
	"plantcare-backend/internal/store"
)

// CatalogAPI is the slice of the catalog client the ingestion loop needs.
type CatalogAPI interface {
	ListPage(ctx context.Context, page int) ([]SpeciesSummary, error)
	Detail(ctx context.Context, id int64) (*SpeciesDetail, error)
}

// EnrichFunc fills derived naming fields on a freshly created plant. It
// mutates the plant in place and reports whether anything changed. Enrichment
// is best-effort: it may do nothing, it must never block ingestion.
type EnrichFunc func(ctx context.Context, p *model.Plant) bool

// Ingestion is the capability of running one resumable catalog backfill pass.
type Ingestion interface {
	Run(ctx context.Context) (*model.BackfillState, error)
}

// Ingestor drives paginated retrieval from the catalog API, upserts each
// normalized record, and advances a durable checkpoint so an interrupted run
// resumes where it left off. One Ingestor owns one named process; concurrent
// Run calls beyond the first fail with ErrIngestionRunning.
type Ingestor struct {
	cfg      *config.CatalogConfig
	store    store.Store
	client   CatalogAPI
	enrich   EnrichFunc
	throttle *rate.Limiter
	batch    int

	mu sync.Mutex
}

// NewIngestor creates a new catalog ingestor. enrich may be nil.
func NewIngestor(cfg *config.CatalogConfig, st store.Store, client CatalogAPI, enrich EnrichFunc) *Ingestor {
	batch := cfg.CheckpointBatch
	if batch <= 0 {
		batch = 10
	}
	return &Ingestor{
		cfg:    cfg,
		store:  st,
		client: client,
		enrich: enrich,
		// Courtesy throttle between page fetches, not a real rate limiter.
		throttle: rate.NewLimiter(rate.Every(cfg.PageDelay), 1),
		batch:    batch,
	}
}

// Run executes one ingestion pass. It resumes from the stored checkpoint,
// resets first if the previous pass completed, and stops cleanly on the first
// empty page. Rate-limit exhaustion and unexpected failures both persist the
// checkpoint (with error context) before being returned; per-item detail
// failures are logged and skipped.
func (in *Ingestor) Run(ctx context.Context) (*model.BackfillState, error) {
	if !in.mu.TryLock() {
		return nil, ErrIngestionRunning
	}
	defer in.mu.Unlock()

	state, err := in.store.GetOrCreateBackfillState(ctx, in.cfg.ProcessName)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	// A finished pass restarts from scratch: there is no incremental
	// "only new items" mode, every pass refreshes the whole catalog.
	if state.IsCompleted {
		log.Printf("Previous %q pass completed, starting a fresh one", state.ProcessName)
		state.Reset()
		if err := in.store.SaveBackfillState(ctx, state); err != nil {
			return nil, fmt.Errorf("failed to reset checkpoint: %w", err)
		}
	}

	page := state.LastPage + 1
	sessionProcessed := 0
	log.Printf("Starting catalog ingestion %q at page %d", state.ProcessName, page)

	for {
		if err := ctx.Err(); err != nil {
			return state, in.persistFailure(state, err)
		}
		if err := in.throttle.Wait(ctx); err != nil {
			return state, in.persistFailure(state, err)
		}

		summaries, err := in.client.ListPage(ctx, page)
		if err != nil {
			return state, in.persistFailure(state, err)
		}

		// Empty page: the catalog is exhausted. Normal termination.
		if len(summaries) == 0 {
			state.MarkCompleted()
			if err := in.store.SaveBackfillState(ctx, state); err != nil {
				return state, fmt.Errorf("failed to save completed checkpoint: %w", err)
			}
			log.Printf("Catalog ingestion %q completed: %d items this pass (%d total)",
				state.ProcessName, state.ProcessedItems, state.TotalProcessed)
			return state, nil
		}

		for _, summary := range summaries {
			if err := ctx.Err(); err != nil {
				return state, in.persistFailure(state, err)
			}

			detail, err := in.client.Detail(ctx, summary.ID)
			if err != nil {
				var rl *RateLimitError
				if errors.As(err, &rl) {
					return state, in.persistFailure(state, err)
				}
				// Per-item failures do not abort the page.
				log.Printf("Skipping plant %d (%s): %v", summary.ID, summary.CommonName, err)
				continue
			}

			plant := NormalizePlant(detail)
			if plant.CommonName == "" {
				log.Printf("Skipping plant %d: no common name", summary.ID)
				continue
			}

			created, err := in.store.UpsertPlant(ctx, plant)
			if err != nil {
				log.Printf("Skipping plant %d (%s): %v", summary.ID, plant.CommonName, err)
				continue
			}

			if created && in.enrich != nil && in.enrich(ctx, plant) {
				if err := in.store.UpdatePlant(ctx, plant); err != nil {
					log.Printf("Warning: failed to save enrichment for %q: %v", plant.CommonName, err)
				}
			}

			sessionProcessed++
			id := summary.ID
			// LastPage stays at the last fully processed page while the
			// current one is in flight; a crash here re-fetches the page and
			// the upserts absorb the repeats.
			state.UpdateCheckpoint(page-1, &id, model.CheckpointMeta{SessionProcessed: sessionProcessed})
			if state.ProcessedItems%in.batch == 0 {
				if err := in.store.SaveBackfillState(ctx, state); err != nil {
					log.Printf("Warning: failed to flush checkpoint: %v", err)
				}
			}
		}

		state.CompletePage(page)
		if err := in.store.SaveBackfillState(ctx, state); err != nil {
			return state, fmt.Errorf("failed to save checkpoint after page %d: %w", page, err)
		}
		log.Printf("Ingested page %d (%d items, %d this session)", page, len(summaries), sessionProcessed)
		page++
	}
}

// persistFailure records the failure on the checkpoint and saves it on a
// fresh context, since the run's own context may already be canceled. The
// cause is returned unchanged so callers can inspect it with errors.As.
func (in *Ingestor) persistFailure(state *model.BackfillState, cause error) error {
	now := time.Now().UTC()
	patch := model.CheckpointMeta{
		LastError:   cause.Error(),
		LastErrorAt: &now,
	}
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		patch.InterruptedAt = &now
	}
	state.MergeMeta(patch)
	state.LastCheckpointAt = &now

	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := in.store.SaveBackfillState(saveCtx, state); err != nil {
		log.Printf("Failed to persist checkpoint after failure: %v", err)
	}
	return cause
}
