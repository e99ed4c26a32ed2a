package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/missionops/mission-ingestion-service/internal/ingest"
	"github.com/missionops/mission-ingestion-service/internal/models"
)

type mockFetcher struct {
	result models.WeatherResult
	calls  int
}

func (m *mockFetcher) Fetch(ctx context.Context, latitude, longitude float64) models.WeatherResult {
	m.calls++
	return m.result
}

func floatPtr(v float64) *float64 { return &v }

func newTestHandler(fetcher *mockFetcher, clock clockwork.Clock) *Handler {
	logger := zap.NewNop()
	ingestor := ingest.NewService(fetcher, clock, logger)
	return NewHandler(ingestor, logger)
}

func missionRouter(handler *Handler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", handler.GetHealth).Methods("GET")
	router.HandleFunc("/mission", handler.PostMission).Methods("POST")
	return router
}

// TestHandler_GetHealth verifies the health endpoint always returns 200 with
// status ok and a fresh RFC3339 UTC timestamp.
func TestHandler_GetHealth(t *testing.T) {
	handler := newTestHandler(&mockFetcher{}, nil)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		missionRouter(handler).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("GetHealth() status = %d, want %d", w.Code, http.StatusOK)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["status"] != "ok" {
			t.Errorf("status = %q, want ok", body["status"])
		}

		ts, err := time.Parse(time.RFC3339, body["timestamp"])
		if err != nil {
			t.Fatalf("timestamp %q is not RFC3339: %v", body["timestamp"], err)
		}
		if delta := time.Since(ts); delta < 0 || delta > 5*time.Second {
			t.Errorf("timestamp %v not close to now", ts)
		}
	}
}

// TestHandler_PostMission_Success verifies the happy path: mission fields are
// echoed back, weather equals the enrichment result, and the ingestion
// timestamp is a valid RFC3339 UTC instant.
func TestHandler_PostMission_Success(t *testing.T) {
	fetcher := &mockFetcher{
		result: models.WeatherResult{
			Temperature: floatPtr(15),
			WindSpeed:   floatPtr(5),
			Condition:   models.ConditionClearDay,
		},
	}
	frozen := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	handler := newTestHandler(fetcher, clockwork.NewFakeClockAt(frozen))

	payload := `{"latitude": 45.0, "longitude": 9.0, "name": "Alpha"}`
	req := httptest.NewRequest("POST", "/mission", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	missionRouter(handler).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("PostMission() status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher calls = %d, want 1", fetcher.calls)
	}

	var record models.IngestionRecord
	if err := json.NewDecoder(w.Body).Decode(&record); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if record.Mission["name"] != "Alpha" {
		t.Errorf("mission.name = %v, want Alpha", record.Mission["name"])
	}
	if record.Mission["latitude"] != 45.0 {
		t.Errorf("mission.latitude = %v, want 45", record.Mission["latitude"])
	}
	if record.Weather.Temperature == nil || *record.Weather.Temperature != 15 {
		t.Errorf("weather.temperature = %v, want 15", record.Weather.Temperature)
	}
	if record.Weather.Condition != models.ConditionClearDay {
		t.Errorf("weather.condition = %q, want %q", record.Weather.Condition, models.ConditionClearDay)
	}
	if record.IngestionTimestamp != "2026-08-30T09:00:00Z" {
		t.Errorf("ingestion_timestamp = %q, want 2026-08-30T09:00:00Z", record.IngestionTimestamp)
	}
}

// TestHandler_PostMission_FallbackWeatherIs200 verifies that a degraded
// weather result still yields a successful ingestion response.
func TestHandler_PostMission_FallbackWeatherIs200(t *testing.T) {
	fetcher := &mockFetcher{result: models.FallbackWeather()}
	handler := newTestHandler(fetcher, nil)

	payload := `{"latitude": 45.0, "longitude": 9.0}`
	req := httptest.NewRequest("POST", "/mission", strings.NewReader(payload))
	w := httptest.NewRecorder()

	missionRouter(handler).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("PostMission() status = %d, want %d", w.Code, http.StatusOK)
	}

	var record models.IngestionRecord
	if err := json.NewDecoder(w.Body).Decode(&record); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !record.Weather.IsFallback() {
		t.Errorf("weather = %+v, want fallback", record.Weather)
	}
}

// TestHandler_PostMission_ValidationFailures verifies schema violations are
// rejected with 422 before any enrichment call is made.
func TestHandler_PostMission_ValidationFailures(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantCode string
	}{
		{"latitude out of range", `{"latitude": 200, "longitude": 9.0}`, "INVALID_COORDINATES"},
		{"longitude out of range", `{"latitude": 45.0, "longitude": -400}`, "INVALID_COORDINATES"},
		{"missing latitude", `{"longitude": 9.0, "name": "Alpha"}`, "INVALID_COORDINATES"},
		{"missing both coordinates", `{"name": "Alpha"}`, "INVALID_COORDINATES"},
		{"malformed JSON", `{"latitude": `, "INVALID_PAYLOAD"},
		{"non-numeric latitude", `{"latitude": "high", "longitude": 9.0}`, "INVALID_PAYLOAD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &mockFetcher{}
			handler := newTestHandler(fetcher, nil)

			req := httptest.NewRequest("POST", "/mission", strings.NewReader(tt.payload))
			w := httptest.NewRecorder()
			missionRouter(handler).ServeHTTP(w, req)

			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("PostMission() status = %d, want %d; body: %s", w.Code, http.StatusUnprocessableEntity, w.Body.String())
			}
			if fetcher.calls != 0 {
				t.Errorf("fetcher calls = %d, want 0 (no outbound call on validation failure)", fetcher.calls)
			}

			var body struct {
				Error map[string]string `json:"error"`
			}
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if body.Error["code"] != tt.wantCode {
				t.Errorf("error.code = %q, want %q", body.Error["code"], tt.wantCode)
			}
			if body.Error["message"] == "" {
				t.Error("error.message is empty")
			}
		})
	}
}

func TestHandler_PostMission_EmptyBody(t *testing.T) {
	fetcher := &mockFetcher{}
	handler := newTestHandler(fetcher, nil)

	req := httptest.NewRequest("POST", "/mission", nil)
	w := httptest.NewRecorder()
	missionRouter(handler).ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("PostMission() status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher calls = %d, want 0", fetcher.calls)
	}
}
