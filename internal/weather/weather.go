package weather

// Snapshot models the weather API response for a single location. Numeric
// fields are pointers so that "field absent" is distinguishable from zero; the
// schedule computation substitutes neutral defaults for missing values.
type Snapshot struct {
	Location Location `json:"location"`
	Current  Current  `json:"current"`
}

// Location identifies the place an observation was made for.
type Location struct {
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Current holds the live observation.
type Current struct {
	TempC     *float64  `json:"temp_c"`
	Humidity  *int      `json:"humidity"`
	Condition Condition `json:"condition"`
}

// Condition carries the free-text sky condition ("Sunny", "Light rain", ...).
type Condition struct {
	Text string `json:"text"`
}
