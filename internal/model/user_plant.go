package model

import "time"

// UserPlant represents one user's instance of a catalog plant at one location.
// A user may track the same species independently in two different cities, so
// the natural key is (user, plant, city).
type UserPlant struct {
	ID      int64 `gorm:"primaryKey" json:"id"`
	UserID  int64 `gorm:"not null;uniqueIndex:idx_user_plant_city" json:"user_id"`
	PlantID int64 `gorm:"not null;uniqueIndex:idx_user_plant_city" json:"plant_id"`

	City         string   `gorm:"size:255;not null;uniqueIndex:idx_user_plant_city" json:"city"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	LocationName string   `gorm:"size:255" json:"location_name"`

	LastWateredAt  *time.Time `json:"last_watered_at"`
	NextWateringAt *time.Time `json:"next_watering_at"` // derived, cached

	// Free-form watering preference overrides, JSON-encoded.
	WateringPreferences string `gorm:"size:1024" json:"watering_preferences"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Plant Plant `gorm:"constraint:OnDelete:CASCADE" json:"plant"`
}
