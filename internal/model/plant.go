package model

import "time"

// Plant represents one entry of the local plant catalog, populated from the
// external species API. The common name is the de-duplication key: re-ingesting
// a species with a known common name updates the existing row.
type Plant struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	ExternalID int64  `gorm:"index" json:"external_id"`
	CommonName string `gorm:"uniqueIndex;size:256;not null" json:"common_name"`

	// JSON-encoded list of scientific names, as delivered by the catalog.
	ScientificName string `gorm:"size:512" json:"scientific_name"`

	FrenchName       string `gorm:"size:256" json:"french_name"`
	AlternativeNames string `gorm:"size:512" json:"alternative_names"` // JSON-encoded list

	Family       string `gorm:"size:128" json:"family"`
	FamilyFrench string `gorm:"size:128" json:"family_french"`
	Type         string `gorm:"size:64" json:"type"`
	Cycle        string `gorm:"size:64" json:"cycle"`

	// Watering is the catalog's qualitative label ("frequent", "average",
	// "minimum", ...). BenchmarkValue carries the nominal cadence descriptor:
	// a number of days ("7") or a day range ("5-7").
	Watering       string `gorm:"size:64" json:"watering"`
	BenchmarkValue string `gorm:"size:64" json:"watering_benchmark_value"`
	BenchmarkUnit  string `gorm:"size:32" json:"watering_benchmark_unit"`

	Description string `gorm:"type:text" json:"description"`

	ImageURL     string `gorm:"size:512" json:"image_url"`
	ThumbnailURL string `gorm:"size:512" json:"thumbnail_url"`
	MediumURL    string `gorm:"size:512" json:"medium_url"`
	RegularURL   string `gorm:"size:512" json:"regular_url"`
	License      int    `json:"license"`
	LicenseName  string `gorm:"size:128" json:"license_name"`
	LicenseURL   string `gorm:"size:512" json:"license_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
