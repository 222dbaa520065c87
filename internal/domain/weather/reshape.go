package weather

import (
	"math"
	"time"
)

// Reshape joins the parallel hourly series into one observation per hour.
// Temperatures round half to even. Null readings stay null, and an hour
// without a weather code has no description.
// Series of unequal length are truncated to the shortest; the second return
// value reports whether that happened.
func Reshape(series HourlySeries, loc *time.Location) (Snapshot, bool) {
	n := minLen(len(series.Time), len(series.Temperature2m), len(series.Rain), len(series.WeatherCode))
	truncated := n != len(series.Time) || n != len(series.Temperature2m) || n != len(series.Rain) || n != len(series.WeatherCode)

	out := make(Snapshot, n)
	for i := 0; i < n; i++ {
		ts := series.Time[i]
		if loc != nil {
			ts = ts.In(loc)
		}
		obs := Observation{
			Rain:        series.Rain[i],
			WeatherCode: series.WeatherCode[i],
		}
		if t := series.Temperature2m[i]; t != nil {
			rounded := int(math.RoundToEven(*t))
			obs.Temp = &rounded
		}
		if obs.WeatherCode != nil {
			obs.WeatherDescription = Describe(*obs.WeatherCode)
		}
		out[ts.Format(KeyLayout)] = obs
	}
	return out, truncated
}

// Missing counts the hours of a snapshot with at least one null reading.
func (s Snapshot) Missing() int {
	n := 0
	for _, obs := range s {
		if obs.Temp == nil || obs.Rain == nil || obs.WeatherCode == nil {
			n++
		}
	}
	return n
}

func minLen(lengths ...int) int {
	n := lengths[0]
	for _, l := range lengths[1:] {
		if l < n {
			n = l
		}
	}
	return n
}
