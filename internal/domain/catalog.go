package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// CatalogResponse is the /api/livers payload. The endpoint has shipped two
// top-level shapes ({timestamp,total,data} and a bare array) and three
// timestamp encodings; decoding tolerates all of them.
type CatalogResponse struct {
	Timestamp *float64 // epoch seconds
	Total     *int
	Data      []Liver
}

func (r *CatalogResponse) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		// Bare-array back-compat shape.
		var livers []Liver
		if err := json.Unmarshal(data, &livers); err != nil {
			return err
		}
		r.Timestamp = nil
		r.Total = nil
		r.Data = livers
		return nil
	}

	var wrapped struct {
		Timestamp json.RawMessage `json:"timestamp"`
		Total     *int            `json:"total"`
		Data      []Liver         `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	r.Timestamp = parseFlexibleTimestamp(wrapped.Timestamp)
	r.Total = wrapped.Total
	r.Data = wrapped.Data
	return nil
}

// parseFlexibleTimestamp tries, in order: ISO-8601 string, floating epoch
// seconds, integer epoch milliseconds. An unparseable value yields nil
// rather than a decode failure.
func parseFlexibleTimestamp(raw json.RawMessage) *float64 {
	value := strings.TrimSpace(string(raw))
	if value == "" || value == "null" {
		return nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if t, err := time.Parse(time.RFC3339, asString); err == nil {
			seconds := float64(t.Unix())
			return &seconds
		}
		return nil
	}

	if strings.ContainsAny(value, ".eE") {
		var seconds float64
		if err := json.Unmarshal(raw, &seconds); err == nil {
			return &seconds
		}
		return nil
	}

	var millis int64
	if err := json.Unmarshal(raw, &millis); err == nil {
		seconds := float64(millis / 1000)
		return &seconds
	}
	return nil
}
