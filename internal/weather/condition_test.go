package weather

import (
	"testing"

	"github.com/missionops/mission-ingestion-service/internal/models"
)

// TestDeriveCondition verifies the priority order of the condition rules:
// cold beats windy beats day/night, and ties resolve to the earlier rule.
func TestDeriveCondition(t *testing.T) {
	tests := []struct {
		name        string
		temperature float64
		windSpeed   float64
		isDay       bool
		want        string
	}{
		{"freezing beats day", -5, 10, true, models.ConditionFreezing},
		{"freezing beats windy", -5, 50, true, models.ConditionFreezing},
		{"windy beats night", 10, 50, false, models.ConditionWindy},
		{"windy beats day", 10, 50, true, models.ConditionWindy},
		{"clear day", 10, 10, true, models.ConditionClearDay},
		{"clear night", 10, 10, false, models.ConditionClearNight},
		{"zero temperature is not freezing", 0, 10, true, models.ConditionClearDay},
		{"wind exactly 40 is not windy", 10, 40, false, models.ConditionClearNight},
		{"barely freezing", -0.1, 0, false, models.ConditionFreezing},
		{"barely windy", 5, 40.1, true, models.ConditionWindy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriveCondition(tt.temperature, tt.windSpeed, tt.isDay)
			if got != tt.want {
				t.Errorf("deriveCondition(%v, %v, %v) = %q, want %q",
					tt.temperature, tt.windSpeed, tt.isDay, got, tt.want)
			}
		})
	}
}
