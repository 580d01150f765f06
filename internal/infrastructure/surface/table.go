// Package surface holds the in-memory drawing targets of a page session:
// the results table and the SVG graph document.
package surface

import (
	"sync"

	"github.com/arf/areacheck/internal/domain"
	"github.com/arf/areacheck/internal/ports"
)

// Table is an in-memory results table. Row 0 is the top row.
type Table struct {
	mu   sync.RWMutex
	rows []domain.TableRow
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// InsertTop implements ports.TableSink.
func (t *Table) InsertTop(row domain.TableRow) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append([]domain.TableRow{row}, t.rows...)
}

// Reset implements ports.TableSink.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = nil
}

// Rows implements ports.TableSink.
func (t *Table) Rows() []domain.TableRow {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.TableRow, len(t.rows))
	copy(out, t.rows)
	return out
}

var _ ports.TableSink = (*Table)(nil)
