package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"plantcare-backend/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for all database operations.
type Store interface {
	// Plant catalog. UpsertPlant keys on the common name: an existing entry is
	// updated in place, a new one is created. The persisted row (with its local
	// id) is written back into p.
	UpsertPlant(ctx context.Context, p *model.Plant) (created bool, err error)
	UpdatePlant(ctx context.Context, p *model.Plant) error
	GetPlantByCommonName(ctx context.Context, name string) (*model.Plant, error)
	ListPlants(ctx context.Context) ([]model.Plant, error)
	DeletePlant(ctx context.Context, id int64) error

	// User plant assignments, unique per (user, plant, city).
	GetUserPlant(ctx context.Context, userID, plantID int64, city string) (*model.UserPlant, error)
	UpsertUserPlant(ctx context.Context, up *model.UserPlant) error
	ListUserPlants(ctx context.Context, userID int64, city string) ([]model.UserPlant, error)
	ListAllUserPlants(ctx context.Context) ([]model.UserPlant, error)
	DeleteUserPlant(ctx context.Context, userID, id int64) error

	// Ingestion checkpoints, one row per process name.
	GetOrCreateBackfillState(ctx context.Context, processName string) (*model.BackfillState, error)
	GetBackfillState(ctx context.Context, processName string) (*model.BackfillState, error)
	SaveBackfillState(ctx context.Context, s *model.BackfillState) error

	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// UpsertPlant creates or updates a catalog entry keyed by common name.
func (s *gormStore) UpsertPlant(ctx context.Context, p *model.Plant) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Plant
		err := tx.Where("common_name = ?", p.CommonName).First(&existing).Error
		switch {
		case err == nil:
			p.ID = existing.ID
			p.CreatedAt = existing.CreatedAt
			// Enrichment results survive re-ingestion; the catalog never
			// delivers French names.
			if p.FrenchName == "" {
				p.FrenchName = existing.FrenchName
			}
			if p.AlternativeNames == "" {
				p.AlternativeNames = existing.AlternativeNames
			}
			return tx.Save(p).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			return tx.Create(p).Error
		default:
			return err
		}
	})
	if err != nil {
		return false, fmt.Errorf("failed to upsert plant %q: %w", p.CommonName, err)
	}
	return created, nil
}

func (s *gormStore) UpdatePlant(ctx context.Context, p *model.Plant) error {
	return s.db.WithContext(ctx).Save(p).Error
}

func (s *gormStore) GetPlantByCommonName(ctx context.Context, name string) (*model.Plant, error) {
	var plant model.Plant
	err := s.db.WithContext(ctx).Where("common_name = ?", name).First(&plant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &plant, nil
}

func (s *gormStore) ListPlants(ctx context.Context) ([]model.Plant, error) {
	var plants []model.Plant
	if err := s.db.WithContext(ctx).Order("common_name").Find(&plants).Error; err != nil {
		return nil, err
	}
	return plants, nil
}

func (s *gormStore) DeletePlant(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Plant{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) GetUserPlant(ctx context.Context, userID, plantID int64, city string) (*model.UserPlant, error) {
	var up model.UserPlant
	err := s.db.WithContext(ctx).Preload("Plant").
		Where("user_id = ? AND plant_id = ? AND city = ?", userID, plantID, city).
		First(&up).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &up, nil
}

// UpsertUserPlant creates or updates the assignment for (user, plant, city).
func (s *gormStore) UpsertUserPlant(ctx context.Context, up *model.UserPlant) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.UserPlant
		err := tx.Where("user_id = ? AND plant_id = ? AND city = ?", up.UserID, up.PlantID, up.City).
			First(&existing).Error
		switch {
		case err == nil:
			up.ID = existing.ID
			up.CreatedAt = existing.CreatedAt
			return tx.Save(up).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(up).Error
		default:
			return err
		}
	})
}

func (s *gormStore) ListUserPlants(ctx context.Context, userID int64, city string) ([]model.UserPlant, error) {
	q := s.db.WithContext(ctx).Preload("Plant").Where("user_id = ?", userID)
	if city != "" {
		q = q.Where("city = ?", city)
	}
	var ups []model.UserPlant
	if err := q.Find(&ups).Error; err != nil {
		return nil, err
	}
	return ups, nil
}

func (s *gormStore) ListAllUserPlants(ctx context.Context) ([]model.UserPlant, error) {
	var ups []model.UserPlant
	if err := s.db.WithContext(ctx).Preload("Plant").Find(&ups).Error; err != nil {
		return nil, err
	}
	return ups, nil
}

func (s *gormStore) DeleteUserPlant(ctx context.Context, userID, id int64) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.UserPlant{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetOrCreateBackfillState returns the checkpoint for the named process,
// creating it at page 0 on first use.
func (s *gormStore) GetOrCreateBackfillState(ctx context.Context, processName string) (*model.BackfillState, error) {
	var state model.BackfillState
	err := s.db.WithContext(ctx).Where("process_name = ?", processName).First(&state).Error
	if err == nil {
		return &state, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	state = model.BackfillState{
		ProcessName: processName,
		StartedAt:   nowUTC(),
	}
	if err := s.db.WithContext(ctx).Create(&state).Error; err != nil {
		return nil, fmt.Errorf("failed to create backfill state %q: %w", processName, err)
	}
	return &state, nil
}

func (s *gormStore) GetBackfillState(ctx context.Context, processName string) (*model.BackfillState, error) {
	var state model.BackfillState
	err := s.db.WithContext(ctx).Where("process_name = ?", processName).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *gormStore) SaveBackfillState(ctx context.Context, state *model.BackfillState) error {
	return s.db.WithContext(ctx).Save(state).Error
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
