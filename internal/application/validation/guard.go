package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arf/areacheck/internal/domain"
)

// Guard checks raw form input against the configured choice sets and bounds.
type Guard struct {
	xValues []float64
	rValues []float64
	yMin    float64
	yMax    float64
}

// NewGuard builds a guard from form settings.
func NewGuard(settings domain.FormSettings) *Guard {
	return &Guard{
		xValues: settings.XValues,
		rValues: settings.RValues,
		yMin:    settings.YMin,
		yMax:    settings.YMax,
	}
}

// Validate normalizes the input or returns a *domain.ValidationError.
// Rules run in order and the first failure wins.
func (g *Guard) Validate(in domain.FormInput) (domain.Point, error) {
	x, ok := g.parseChoice(in.X, g.xValues)
	if !ok {
		return domain.Point{}, &domain.ValidationError{
			Field:   domain.ParamX,
			Message: "Please select an X value.",
			Err:     domain.ErrSelectX,
		}
	}

	y, ok := g.parseY(in.Y)
	if !ok {
		return domain.Point{}, &domain.ValidationError{
			Field:   domain.ParamY,
			Message: fmt.Sprintf("Y must be a number in the interval (%s ... %s).", formatBound(g.yMin), formatBound(g.yMax)),
			Err:     domain.ErrYOutOfRange,
		}
	}

	r, ok := g.parseChoice(in.R, g.rValues)
	if !ok {
		return domain.Point{}, &domain.ValidationError{
			Field:   domain.ParamR,
			Message: "Please select an R value.",
			Err:     domain.ErrSelectR,
		}
	}

	return domain.Point{
		X:    x,
		Y:    y,
		R:    r,
		XRaw: strings.TrimSpace(in.X),
		YRaw: Canonical(y),
		RRaw: strings.TrimSpace(in.R),
	}, nil
}

// ParseY parses a Y field the way the form does: trimmed, decimal comma allowed.
func ParseY(raw string) (float64, bool) {
	s := strings.Replace(strings.TrimSpace(raw), ",", ".", 1)
	if s == "" {
		return 0, false
	}
	y, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, false
	}
	return y, true
}

// Canonical re-serializes a number to its shortest round-trip form.
func Canonical(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (g *Guard) parseY(raw string) (float64, bool) {
	y, ok := ParseY(raw)
	if !ok {
		return 0, false
	}
	return y, y > g.yMin && y < g.yMax
}

func (g *Guard) parseChoice(raw string, choices []float64) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	for _, c := range choices {
		if c == v {
			return v, true
		}
	}
	return 0, false
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
