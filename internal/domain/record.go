// Package domain defines the core entities and value objects of areacheck.
//
// The domain layer is independent of transport, storage and rendering concerns:
// it describes the form input a user submits, the validated point sent to the
// calculation service, and the result records kept in history.
package domain

// ResultRecord is one evaluated trial as reported by the calculation service.
// Records are immutable once created: history only ever prepends or clears.
type ResultRecord struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	R             float64 `json:"r"`
	Hit           bool    `json:"hit"`
	CurrentTime   string  `json:"currentTime"`
	ExecutionTime float64 `json:"executionTime"`
}

// FormInput holds the raw, unvalidated form values.
type FormInput struct {
	X string
	Y string
	R string
}

// Complete reports whether all three values are present.
func (f FormInput) Complete() bool {
	return f.X != "" && f.Y != "" && f.R != ""
}

// Point is a validated submission. The string fields carry the canonical
// representation used on the wire and in shareable links.
type Point struct {
	X    float64
	Y    float64
	R    float64
	XRaw string
	YRaw string
	RRaw string
}
