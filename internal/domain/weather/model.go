package weather

import (
	"context"
	"time"
)

// JobName identifies the weather snapshot task in run history and metrics.
const JobName = "weather_snapshot"

// StepSnapshot names the single step of the task in run records.
const StepSnapshot = "snapshot"

// KeyLayout formats the local hour an observation belongs to.
const KeyLayout = "2006-01-02 15:04"

// Observation is one hour of weather as written to the snapshot file.
// Readings the archive has no value for stay nil and encode as null.
type Observation struct {
	Temp               *int     `json:"temp"`
	Rain               *float64 `json:"rain"`
	WeatherCode        *int     `json:"weather_code"`
	WeatherDescription *string  `json:"weather_description"`
}

// Snapshot maps formatted local timestamps to observations.
type Snapshot map[string]Observation

// HourlySeries holds the parallel hourly arrays returned by the archive API.
// A nil element is a null reading.
type HourlySeries struct {
	Time          []time.Time
	Temperature2m []*float64
	Rain          []*float64
	WeatherCode   []*int
}

// Query selects the location and local day range of a snapshot.
type Query struct {
	Latitude  float64
	Longitude float64
	StartDate string
	EndDate   string
	Timezone  string
}

// Client fetches hourly observations.
type Client interface {
	Hourly(ctx context.Context, q Query) (HourlySeries, error)
}

// Writer persists a snapshot, replacing any previous one.
type Writer interface {
	Write(ctx context.Context, snapshot Snapshot) error
}

// Config fixes the observed location.
type Config struct {
	Latitude  float64
	Longitude float64
	Location  *time.Location
}
