package repository

import (
	"encoding/json"

	"venuebook/internal/domain"
)

// Food lists and additional services are stored as JSON text columns; the
// document shape travels with the row instead of exploding into join tables.

func marshalStrings(v []string) string {
	if len(v) == 0 {
		return "[]"
	}
	raw, _ := json.Marshal(v)
	return string(raw)
}

func unmarshalStrings(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	_ = json.Unmarshal([]byte(raw), &out)
	if len(out) == 0 {
		return nil
	}
	return out
}

func marshalServices(v []domain.AdditionalService) string {
	if len(v) == 0 {
		return "[]"
	}
	raw, _ := json.Marshal(v)
	return string(raw)
}

func unmarshalServices(raw string) []domain.AdditionalService {
	if raw == "" {
		return nil
	}
	var out []domain.AdditionalService
	_ = json.Unmarshal([]byte(raw), &out)
	if len(out) == 0 {
		return nil
	}
	return out
}
