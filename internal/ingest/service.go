package ingest

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/missionops/mission-ingestion-service/internal/models"
	"github.com/missionops/mission-ingestion-service/internal/observability"
	"github.com/missionops/mission-ingestion-service/internal/weather"
)

// Service assembles ingestion records: one weather enrichment call per
// mission, stamped with the time of ingestion. The clock is injected so
// tests can freeze timestamps.
type Service struct {
	fetcher weather.Fetcher
	clock   clockwork.Clock
	logger  *zap.Logger
}

// NewService returns a Service. A nil clock selects the real clock.
func NewService(fetcher weather.Fetcher, clock clockwork.Clock, logger *zap.Logger) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher: fetcher,
		clock:   clock,
		logger:  logger,
	}
}

// Ingest enriches a validated mission with current weather and returns the
// combined record. The weather call is total; degraded upstream data arrives
// as the fallback result, so Ingest itself cannot fail.
func (s *Service) Ingest(ctx context.Context, mission models.MissionRequest) models.IngestionRecord {
	result := s.fetcher.Fetch(ctx, *mission.Latitude, *mission.Longitude)

	observability.MissionsIngestedTotal.Inc()
	if result.IsFallback() {
		s.logger.Debug("mission ingested with fallback weather",
			zap.Float64("latitude", *mission.Latitude),
			zap.Float64("longitude", *mission.Longitude))
	}

	return models.IngestionRecord{
		Mission:            mission.AsMap(),
		Weather:            result,
		IngestionTimestamp: s.clock.Now().UTC().Format(time.RFC3339),
	}
}
