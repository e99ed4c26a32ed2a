package models

// Condition vocabulary for WeatherResult. ConditionUnknown doubles as the
// fallback value when upstream data is unavailable.
const (
	ConditionUnknown    = "unknown"
	ConditionFreezing   = "freezing"
	ConditionWindy      = "windy"
	ConditionClearDay   = "clear-day"
	ConditionClearNight = "clear-night"
)

// WeatherResult is a normalized current-conditions snapshot. Either all
// fields carry upstream data or all carry the fallback sentinel; partial
// states are never constructed.
type WeatherResult struct {
	Temperature *float64 `json:"temperature"` // degrees Celsius
	WindSpeed   *float64 `json:"wind_speed"`  // km/h
	Condition   string   `json:"condition"`
}

// FallbackWeather returns the sentinel result used when the forecast service
// is unreachable or its response cannot be used.
func FallbackWeather() WeatherResult {
	return WeatherResult{Condition: ConditionUnknown}
}

// IsFallback reports whether r is the sentinel result.
func (r WeatherResult) IsFallback() bool {
	return r.Temperature == nil && r.WindSpeed == nil && r.Condition == ConditionUnknown
}
