package models

import "encoding/json"

// MissionRequest is one inbound mission payload. Latitude and longitude are
// mandatory and range-checked; anything else the client sends rides along
// unvalidated and is echoed back in the ingestion record.
type MissionRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`

	// Fields holds the free-form mission-descriptive fields, coordinates excluded.
	Fields map[string]interface{} `json:"-"`
}

// UnmarshalJSON decodes the coordinate fields into their typed slots and
// captures every other top-level field verbatim.
func (m *MissionRequest) UnmarshalJSON(data []byte) error {
	type coords struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	var c coords
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}

	var all map[string]interface{}
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	delete(all, "latitude")
	delete(all, "longitude")

	m.Latitude = c.Latitude
	m.Longitude = c.Longitude
	m.Fields = all
	return nil
}

// AsMap reassembles the full mission object, coordinates included,
// for embedding in an IngestionRecord.
func (m *MissionRequest) AsMap() map[string]interface{} {
	out := make(map[string]interface{}, len(m.Fields)+2)
	for k, v := range m.Fields {
		out[k] = v
	}
	if m.Latitude != nil {
		out["latitude"] = *m.Latitude
	}
	if m.Longitude != nil {
		out["longitude"] = *m.Longitude
	}
	return out
}

// IngestionRecord is the response body for POST /mission: the mission as
// submitted, the weather enrichment, and the time of ingestion.
type IngestionRecord struct {
	Mission            map[string]interface{} `json:"mission"`
	Weather            WeatherResult          `json:"weather"`
	IngestionTimestamp string                 `json:"ingestion_timestamp"`
}
