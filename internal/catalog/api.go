package catalog

import (
	"encoding/json"
	"strconv"
	"strings"

	"plantcare-backend/internal/model"
)

// SpeciesSummary is one entry of the paginated species list.
type SpeciesSummary struct {
	ID         int64  `json:"id"`
	CommonName string `json:"common_name"`
}

// listResponse models the species-list endpoint. The rate-limit fields appear
// in the body once the quota is exhausted; they must be told apart from an
// ordinary empty page, which means end of data.
type listResponse struct {
	Data []SpeciesSummary `json:"data"`
	rateLimitBody
}

// rateLimitBody carries the quota fields the catalog API embeds in a
// rate-limited response.
type rateLimitBody struct {
	Exceeded   string  `json:"X-RateLimit-Exceeded"`
	Limit      flexInt `json:"X-RateLimit-Limit"`
	Remaining  flexInt `json:"X-RateLimit-Remaining"`
	RetryAfter flexInt `json:"Retry-After"`
	Reset      flexInt `json:"X-RateLimit-Reset"`
}

// SpeciesDetail is the full record from the species detail endpoint.
type SpeciesDetail struct {
	ID             int64      `json:"id"`
	CommonName     string     `json:"common_name"`
	ScientificName []string   `json:"scientific_name"`
	Family         string     `json:"family"`
	Type           string     `json:"type"`
	Cycle          string     `json:"cycle"`
	Watering       string     `json:"watering"`
	Benchmark      Benchmark  `json:"watering_general_benchmark"`
	Description    string     `json:"description"`
	DefaultImage   *ImageMeta `json:"default_image"`
}

// Benchmark is the nominal watering cadence descriptor. Value may be a scalar
// or a hyphenated day range, and arrives as either a JSON number or a string.
type Benchmark struct {
	Value flexString `json:"value"`
	Unit  string     `json:"unit"`
}

// ImageMeta is the default_image sub-object.
type ImageMeta struct {
	License     flexInt `json:"license"`
	LicenseName string  `json:"license_name"`
	LicenseURL  string  `json:"license_url"`
	OriginalURL string  `json:"original_url"`
	RegularURL  string  `json:"regular_url"`
	MediumURL   string  `json:"medium_url"`
	Thumbnail   string  `json:"thumbnail"`
}

// flexString accepts a JSON string, number or null.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*f = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*f = flexString(str)
		return nil
	}
	*f = flexString(strings.TrimSpace(s))
	return nil
}

// flexInt accepts a JSON number, numeric string or null.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "null" || s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// NormalizePlant converts a species detail record into a catalog entry.
func NormalizePlant(d *SpeciesDetail) *model.Plant {
	plant := &model.Plant{
		ExternalID:     d.ID,
		CommonName:     strings.TrimSpace(d.CommonName),
		Family:         d.Family,
		Type:           d.Type,
		Cycle:          d.Cycle,
		Watering:       d.Watering,
		BenchmarkValue: string(d.Benchmark.Value),
		BenchmarkUnit:  d.Benchmark.Unit,
		Description:    d.Description,
	}

	if len(d.ScientificName) > 0 {
		if raw, err := json.Marshal(d.ScientificName); err == nil {
			plant.ScientificName = string(raw)
		}
	}

	if img := d.DefaultImage; img != nil {
		plant.ImageURL = img.OriginalURL
		plant.ThumbnailURL = img.Thumbnail
		plant.MediumURL = img.MediumURL
		plant.RegularURL = img.RegularURL
		plant.License = int(img.License)
		plant.LicenseName = img.LicenseName
		plant.LicenseURL = img.LicenseURL
	}

	return plant
}
