package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arf/areacheck/internal/domain"
)

// flexNumber accepts a JSON number or a numeric string.
type flexNumber struct {
	value float64
	set   bool
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.Replace(strings.TrimSpace(raw), ",", ".", 1)
	} else {
		raw = string(data)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("not a number: %s", data)
	}
	n.value, n.set = f, true
	return nil
}

// flexBool accepts a JSON boolean or the strings "true"/"false".
type flexBool struct {
	value bool
	set   bool
}

func (b *flexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case bool:
		b.value, b.set = v, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("not a boolean: %s", data)
		}
		b.value, b.set = parsed, true
	default:
		return fmt.Errorf("not a boolean: %s", data)
	}
	return nil
}

type resultPayload struct {
	X             flexNumber `json:"x"`
	Y             flexNumber `json:"y"`
	R             flexNumber `json:"r"`
	Hit           flexBool   `json:"hit"`
	CurrentTime   *string    `json:"currentTime"`
	ExecutionTime flexNumber `json:"executionTime"`
	Error         *string    `json:"error"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// decodeResult normalizes a success body into a record.
func decodeResult(body []byte) (domain.ResultRecord, error) {
	var p resultPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return domain.ResultRecord{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if p.Error != nil && *p.Error != "" {
		return domain.ResultRecord{}, &domain.TransportError{Message: *p.Error}
	}

	var missing []string
	if !p.X.set {
		missing = append(missing, "x")
	}
	if !p.Y.set {
		missing = append(missing, "y")
	}
	if !p.R.set {
		missing = append(missing, "r")
	}
	if !p.Hit.set {
		missing = append(missing, "hit")
	}
	if p.CurrentTime == nil {
		missing = append(missing, "currentTime")
	}
	if !p.ExecutionTime.set {
		missing = append(missing, "executionTime")
	}
	if len(missing) > 0 {
		return domain.ResultRecord{}, fmt.Errorf("%w: missing %s", domain.ErrMalformedResponse, strings.Join(missing, ", "))
	}

	return domain.ResultRecord{
		X:             p.X.value,
		Y:             p.Y.value,
		R:             p.R.value,
		Hit:           p.Hit.value,
		CurrentTime:   *p.CurrentTime,
		ExecutionTime: p.ExecutionTime.value,
	}, nil
}

// errorMessage extracts the server-supplied error, if any.
func errorMessage(body []byte) string {
	var p errorPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return ""
	}
	return p.Error
}
