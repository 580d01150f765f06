package surface

import (
	"bytes"
	"encoding/xml"

	"github.com/arf/areacheck/internal/application/graph"
	"github.com/arf/areacheck/internal/pkg/svg"
)

// Layer ids, kept stable for stylesheets.
const (
	XTicksID = "x-axis-ticks"
	YTicksID = "y-axis-ticks"
	PointsID = "dot-container"
)

// Graph is the SVG diagram: static axes plus three redrawable layers.
// The origin sits at the center of a square viewBox.
type Graph struct {
	XTicks *svg.Group
	YTicks *svg.Group
	Points *svg.Group
	unit   float64
}

// NewGraph returns an empty diagram sized for the given unit.
func NewGraph(unit float64) *Graph {
	return &Graph{
		XTicks: svg.NewGroup(XTicksID),
		YTicks: svg.NewGroup(YTicksID),
		Points: svg.NewGroup(PointsID),
		unit:   unit,
	}
}

// Layers exposes the groups to a graph.Renderer.
func (g *Graph) Layers() graph.Layers {
	return graph.Layers{XTicks: g.XTicks, YTicks: g.YTicks, Points: g.Points}
}

// Element builds the full <svg> element.
func (g *Graph) Element() svg.Element {
	half := g.unit * 1.5
	size := half * 2
	root := svg.New("svg",
		"xmlns", svg.Namespace,
		"id", "graph",
		"width", svg.Num(size),
		"height", svg.Num(size),
		"viewBox", svg.Num(-half)+" "+svg.Num(-half)+" "+svg.Num(size)+" "+svg.Num(size),
	)
	axes := svg.New("g", "id", "axes", "stroke", "#000", "stroke-width", "1")
	axes.Children = []svg.Element{
		svg.New("line", "x1", svg.Num(-half), "y1", "0", "x2", svg.Num(half), "y2", "0"),
		svg.New("line", "x1", "0", "y1", svg.Num(half), "x2", "0", "y2", svg.Num(-half)),
		svg.New("polygon", "points", arrow(half, 0, true)),
		svg.New("polygon", "points", arrow(0, -half, false)),
	}
	root.Children = []svg.Element{
		axes,
		g.XTicks.Element(),
		g.YTicks.Element(),
		g.Points.Element(),
	}
	return root
}

// Markup renders the diagram as SVG text.
func (g *Graph) Markup() (string, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := enc.Encode(g.Element()); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Document renders the diagram as a standalone SVG file.
func (g *Graph) Document() ([]byte, error) {
	markup, err := g.Markup()
	if err != nil {
		return nil, err
	}
	return []byte(xml.Header + markup + "\n"), nil
}

func arrow(x, y float64, horizontal bool) string {
	if horizontal {
		return svg.Num(x) + "," + svg.Num(y) + " " + svg.Num(x-8) + "," + svg.Num(y-4) + " " + svg.Num(x-8) + "," + svg.Num(y+4)
	}
	return svg.Num(x) + "," + svg.Num(y) + " " + svg.Num(x-4) + "," + svg.Num(y+8) + " " + svg.Num(x+4) + "," + svg.Num(y+8)
}
