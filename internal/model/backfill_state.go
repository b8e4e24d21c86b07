package model

import (
	"encoding/json"
	"time"
)

// CheckpointMeta is the structured metadata carried by a backfill checkpoint.
// Merging a patch overwrites only the fields the patch actually sets.
type CheckpointMeta struct {
	LastError        string     `json:"last_error,omitempty"`
	LastErrorAt      *time.Time `json:"last_error_at,omitempty"`
	InterruptedAt    *time.Time `json:"interrupted_at,omitempty"`
	SessionProcessed int        `json:"session_processed,omitempty"`
}

// BackfillState is the durable cursor for one named ingestion process.
// LastPage always holds the last fully processed page: a run interrupted while
// working on page P leaves LastPage at P-1 and the next run re-fetches P.
// Upserts are idempotent, so re-processing a partial page is safe.
type BackfillState struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	ProcessName string `gorm:"uniqueIndex;size:128;not null" json:"process_name"`

	LastPage       int    `gorm:"not null" json:"last_page"`
	LastPlantID    *int64 `json:"last_plant_id"`
	ProcessedItems int    `gorm:"not null" json:"processed_items"` // this pass
	TotalProcessed int64  `gorm:"not null" json:"total_processed"` // running total, zeroed on reset
	IsCompleted    bool   `gorm:"not null" json:"is_completed"`

	StartedAt        time.Time  `json:"started_at"`
	LastCheckpointAt *time.Time `json:"last_checkpoint_at"`

	MetadataJSON string `gorm:"column:metadata;size:2048" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BackfillState) TableName() string {
	return "backfill_state"
}

// Meta decodes the checkpoint metadata. A missing or malformed payload yields
// the zero value.
func (s *BackfillState) Meta() CheckpointMeta {
	var m CheckpointMeta
	if s.MetadataJSON != "" {
		_ = json.Unmarshal([]byte(s.MetadataJSON), &m)
	}
	return m
}

// MergeMeta applies a patch to the stored metadata, field-wise: set fields
// overwrite, unset fields are kept.
func (s *BackfillState) MergeMeta(patch CheckpointMeta) {
	m := s.Meta()
	if patch.LastError != "" {
		m.LastError = patch.LastError
	}
	if patch.LastErrorAt != nil {
		m.LastErrorAt = patch.LastErrorAt
	}
	if patch.InterruptedAt != nil {
		m.InterruptedAt = patch.InterruptedAt
	}
	if patch.SessionProcessed != 0 {
		m.SessionProcessed = patch.SessionProcessed
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return
	}
	s.MetadataJSON = string(raw)
}

// UpdateCheckpoint records one processed unit of work. It is called once per
// item, with the last fully processed page.
func (s *BackfillState) UpdateCheckpoint(lastPage int, plantID *int64, patch CheckpointMeta) {
	now := time.Now().UTC()
	s.LastPage = lastPage
	s.LastPlantID = plantID
	s.ProcessedItems++
	s.TotalProcessed++
	s.MergeMeta(patch)
	s.LastCheckpointAt = &now
}

// CompletePage advances the cursor past a fully processed page.
func (s *BackfillState) CompletePage(page int) {
	now := time.Now().UTC()
	s.LastPage = page
	s.LastCheckpointAt = &now
}

// MarkCompleted flags the pass as finished. Counters are kept for inspection
// until the next run starts over via Reset.
func (s *BackfillState) MarkCompleted() {
	now := time.Now().UTC()
	s.IsCompleted = true
	s.LastCheckpointAt = &now
}

// Reset zeroes the cursor and all counters for a fresh full pass.
func (s *BackfillState) Reset() {
	s.LastPage = 0
	s.LastPlantID = nil
	s.ProcessedItems = 0
	s.TotalProcessed = 0
	s.IsCompleted = false
	s.StartedAt = time.Now().UTC()
	s.LastCheckpointAt = nil
	s.MetadataJSON = ""
}
