package domain

// Graph rendering constants.
const (
	// DefaultGraphUnit is the number of SVG units per one unit of the current radius.
	DefaultGraphUnit = 100

	// HitColor fills points inside the region.
	HitColor = "#198754"
	// MissColor fills points outside the region.
	MissColor = "#dc3545"

	// PointRadius is the radius of the plotted marker.
	PointRadius = 4
	// PointID is the element id of the plotted marker.
	PointID = "result-dot"
)

// TickLabel names a multiple of the current radius drawn on an axis.
type TickLabel struct {
	Name   string
	Factor float64
}

// TickLabels are drawn on both axes, in this order.
var TickLabels = []TickLabel{
	{Name: "R", Factor: 1},
	{Name: "R/2", Factor: 0.5},
	{Name: "-R/2", Factor: -0.5},
	{Name: "-R", Factor: -1},
}

// PlottedPoint is the most recent point drawn on the graph.
type PlottedPoint struct {
	X   float64
	Y   float64
	Hit bool
}

// GraphState is derived page state: the radius driving the tick labels and
// the last plotted point. It is never persisted.
type GraphState struct {
	R     float64
	Point *PlottedPoint
}
