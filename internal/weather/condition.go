package weather

import "github.com/missionops/mission-ingestion-service/internal/models"

// deriveCondition maps raw current-conditions signals to the coarse textual
// vocabulary. Rules are checked in priority order; the first match wins.
// Precipitation is deliberately not consulted.
func deriveCondition(temperature, windSpeed float64, isDay bool) string {
	switch {
	case temperature < 0:
		return models.ConditionFreezing
	case windSpeed > 40:
		return models.ConditionWindy
	case isDay:
		return models.ConditionClearDay
	default:
		return models.ConditionClearNight
	}
}
