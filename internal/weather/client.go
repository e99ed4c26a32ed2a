package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/missionops/mission-ingestion-service/internal/models"
	"github.com/missionops/mission-ingestion-service/internal/observability"
)

// DefaultForecastURL is the public Open-Meteo current-conditions endpoint.
// No API key is required.
const DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

// DefaultTimeout bounds the connection and the overall request.
const DefaultTimeout = 5 * time.Second

// Fetcher produces a WeatherResult for a coordinate pair. Implementations
// must be total: every failure path resolves to the fallback result, never
// an error. Callers can therefore treat the result as always present.
type Fetcher interface {
	Fetch(ctx context.Context, latitude, longitude float64) models.WeatherResult
}

// OpenMeteoClient fetches current conditions from the Open-Meteo forecast API.
type OpenMeteoClient struct {
	apiURL  string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
}

// NewOpenMeteoClient returns a client for the given endpoint. Empty apiURL
// selects the public endpoint; a non-positive timeout selects DefaultTimeout.
func NewOpenMeteoClient(apiURL string, timeout time.Duration, logger *zap.Logger) (*OpenMeteoClient, error) {
	if apiURL == "" {
		apiURL = DefaultForecastURL
	}
	if _, err := url.Parse(apiURL); err != nil {
		return nil, fmt.Errorf("invalid forecast URL %q: %w", apiURL, err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenMeteoClient{
		apiURL:  apiURL,
		timeout: timeout,
		logger:  logger,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// forecastResponse is the subset of the Open-Meteo payload we consume.
// Pointer fields distinguish absent values from zero values.
type forecastResponse struct {
	Current struct {
		Temperature *float64 `json:"temperature_2m"`
		WindSpeed   *float64 `json:"wind_speed_10m"`
		IsDay       *int     `json:"is_day"`
	} `json:"current"`
}

// Fetch retrieves and normalizes current conditions for the coordinates.
// Network faults, non-2xx statuses, timeouts, and unparsable bodies are all
// logged and collapse to the fallback result.
func (c *OpenMeteoClient) Fetch(ctx context.Context, latitude, longitude float64) models.WeatherResult {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.buildRequest(reqCtx, latitude, longitude)
	if err != nil {
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		return c.fallback("build_request", err)
	}

	if corrID := extractCorrelationID(ctx); corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		duration := time.Since(start).Seconds()
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		observability.WeatherAPIDuration.WithLabelValues("error").Observe(duration)
		return c.fallback("network", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start).Seconds()
	status := statusLabel(resp.StatusCode)
	observability.WeatherAPICallsTotal.WithLabelValues(status).Inc()
	observability.WeatherAPIDuration.WithLabelValues(status).Observe(duration)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.fallback("http_status", fmt.Errorf("forecast API returned HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fallbackUnexpected("read_body", err)
	}

	var apiResp forecastResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return c.fallbackUnexpected("parse", err)
	}

	return c.normalize(apiResp)
}

func (c *OpenMeteoClient) buildRequest(ctx context.Context, latitude, longitude float64) (*http.Request, error) {
	baseURL, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid forecast URL: %w", err)
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Set("current", "temperature_2m,wind_speed_10m,is_day")
	params.Set("wind_speed_unit", "kmh")
	params.Set("timezone", "UTC")
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}

// normalize applies the condition heuristic. A response missing temperature
// or wind speed collapses to the full fallback so the result is never
// partially populated.
func (c *OpenMeteoClient) normalize(resp forecastResponse) models.WeatherResult {
	current := resp.Current
	if current.Temperature == nil || current.WindSpeed == nil {
		observability.WeatherFallbacksTotal.WithLabelValues("missing_fields").Inc()
		c.logger.Warn("forecast response missing current conditions")
		return models.FallbackWeather()
	}

	isDay := current.IsDay != nil && *current.IsDay == 1
	return models.WeatherResult{
		Temperature: current.Temperature,
		WindSpeed:   current.WindSpeed,
		Condition:   deriveCondition(*current.Temperature, *current.WindSpeed, isDay),
	}
}

// fallback logs a network/HTTP-level failure and returns the sentinel result.
func (c *OpenMeteoClient) fallback(reason string, err error) models.WeatherResult {
	observability.WeatherFallbacksTotal.WithLabelValues(reason).Inc()
	c.logger.Error("weather fetch failed",
		zap.String("reason", reason),
		zap.Error(err))
	return models.FallbackWeather()
}

// fallbackUnexpected covers parse and other unexpected failures. The returned
// data is identical to fallback; only the log message differs.
func (c *OpenMeteoClient) fallbackUnexpected(reason string, err error) models.WeatherResult {
	observability.WeatherFallbacksTotal.WithLabelValues(reason).Inc()
	c.logger.Error("unexpected error during weather fetch",
		zap.String("reason", reason),
		zap.Error(err))
	return models.FallbackWeather()
}

func extractCorrelationID(ctx context.Context) string {
	if v := ctx.Value("correlation_id"); v != nil {
		if corrID, ok := v.(string); ok {
			return corrID
		}
	}
	return ""
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}
