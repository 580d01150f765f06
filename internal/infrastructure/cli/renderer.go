package cli

import (
	"fmt"
	"io"

	"github.com/arf/areacheck/internal/application/page"
	"github.com/arf/areacheck/internal/infrastructure/cli/helpers"
)

// RenderView prints a page snapshot: message, results table, plotted point
// and the share link.
func RenderView(out io.Writer, view page.View) {
	if view.Message != "" {
		fmt.Fprintln(out, view.Message)
	}
	if len(view.Rows) > 0 {
		helpers.RenderTable(out, view.Rows)
	}
	if p := view.Graph.Point; p != nil {
		result := "miss"
		if p.Hit {
			result = "hit"
		}
		fmt.Fprintf(out, "\nPlotted (%g, %g) at R=%g: %s\n", p.X, p.Y, view.Graph.R, result)
	}
	fmt.Fprintf(out, "Share link: %s\n", view.Location)
}
