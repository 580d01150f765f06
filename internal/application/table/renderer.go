// Package table projects result records into display rows.
package table

import (
	"strconv"

	"github.com/arf/areacheck/internal/domain"
	"github.com/arf/areacheck/internal/ports"
)

// Renderer writes rows into a TableSink, newest on top.
type Renderer struct {
	sink ports.TableSink
}

// NewRenderer returns a renderer drawing into sink.
func NewRenderer(sink ports.TableSink) *Renderer {
	return &Renderer{sink: sink}
}

// Add inserts the record as the new top row.
func (r *Renderer) Add(record domain.ResultRecord) {
	r.sink.InsertTop(FormatRow(record))
}

// Hydrate fills the table from a newest-first history list. Records are
// replayed oldest first so the final order matches live insertion.
func (r *Renderer) Hydrate(records []domain.ResultRecord) {
	for i := len(records) - 1; i >= 0; i-- {
		r.Add(records[i])
	}
}

// Reset empties the table.
func (r *Renderer) Reset() {
	r.sink.Reset()
}

// FormatRow renders coordinates to 2 decimals and the execution time to 4.
func FormatRow(record domain.ResultRecord) domain.TableRow {
	row := domain.TableRow{
		X:             fixed(record.X, 2),
		Y:             fixed(record.Y, 2),
		R:             fixed(record.R, 2),
		CurrentTime:   record.CurrentTime,
		ExecutionTime: fixed(record.ExecutionTime, 4),
	}
	if record.Hit {
		row.Result = domain.LabelHit
		row.Class = domain.RowClassHit
	} else {
		row.Result = domain.LabelMiss
		row.Class = domain.RowClassMiss
	}
	return row
}

func fixed(f float64, prec int) string {
	return strconv.FormatFloat(f, 'f', prec, 64)
}
