// Package graph maps result coordinates onto the SVG diagram.
//
// The plotting area is normalized: one unit of the current radius spans Unit
// SVG units, so the R tick always sits at Unit and -R at -Unit. Screen Y grows
// downward, so every Y coordinate is negated.
package graph

import (
	"math"

	"github.com/arf/areacheck/internal/domain"
	"github.com/arf/areacheck/internal/pkg/svg"
	"github.com/arf/areacheck/internal/ports"
)

// Layers are the independently redrawn groups of the diagram.
type Layers struct {
	XTicks ports.GraphLayer
	YTicks ports.GraphLayer
	Points ports.GraphLayer
}

// Renderer draws tick labels and the result point.
type Renderer struct {
	layers Layers
	unit   float64
}

// NewRenderer returns a renderer; a non-positive unit falls back to the default.
func NewRenderer(layers Layers, unit float64) *Renderer {
	if !(unit > 0) {
		unit = domain.DefaultGraphUnit
	}
	return &Renderer{layers: layers, unit: unit}
}

// Unit returns the SVG length of one radius.
func (r *Renderer) Unit() float64 {
	return r.unit
}

// Project maps a mathematical point to SVG coordinates for radius rad.
func (r *Renderer) Project(x, y, rad float64) (float64, float64) {
	return (x / rad) * r.unit, (-y / rad) * r.unit
}

// UpdateGraphLabels redraws the R, R/2, -R/2, -R ticks on both axes.
// It leaves existing ticks untouched unless rad is finite and positive.
func (r *Renderer) UpdateGraphLabels(rad float64) {
	if !usableRadius(rad) {
		return
	}
	r.layers.XTicks.Clear()
	r.layers.YTicks.Clear()
	for _, tick := range domain.TickLabels {
		value := tick.Factor * rad
		sx, sy := r.Project(value, value, rad)

		r.layers.XTicks.Append(svg.New("text", "x", svg.Num(sx), "y", "15").WithText(tick.Name))
		r.layers.XTicks.Append(svg.New("line",
			"class", "tick-line",
			"x1", svg.Num(sx), "y1", "-5",
			"x2", svg.Num(sx), "y2", "5",
		))

		r.layers.YTicks.Append(svg.New("text", "x", "-10", "y", svg.Num(sy+3)).WithText(tick.Name))
		r.layers.YTicks.Append(svg.New("line",
			"class", "tick-line",
			"x1", "-5", "y1", svg.Num(sy),
			"x2", "5", "y2", svg.Num(sy),
		))
	}
}

// DrawPoint replaces the plotted marker. Nothing is drawn unless rad is
// finite and positive and the coordinates are finite.
func (r *Renderer) DrawPoint(x, y, rad float64, hit bool) {
	r.layers.Points.Clear()
	if !usableRadius(rad) || !finite(x) || !finite(y) {
		return
	}
	cx, cy := r.Project(x, y, rad)
	fill := domain.MissColor
	if hit {
		fill = domain.HitColor
	}
	r.layers.Points.Append(svg.New("circle",
		"id", domain.PointID,
		"cx", svg.Num(cx),
		"cy", svg.Num(cy),
		"r", svg.Num(domain.PointRadius),
		"style", "fill:"+fill+";stroke:#fff;stroke-width:1.5",
	))
}

// ClearPoint removes the plotted marker.
func (r *Renderer) ClearPoint() {
	r.layers.Points.Clear()
}

func usableRadius(rad float64) bool {
	return finite(rad) && rad > 0
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
