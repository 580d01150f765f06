package domain

// Row CSS classes distinguishing hit from miss rows.
const (
	RowClassHit  = "hit-true"
	RowClassMiss = "hit-false"
)

// Result labels shown in the table.
const (
	LabelHit  = "Hit"
	LabelMiss = "Miss"
)

// TableRow is a rendered, display-ready result row.
type TableRow struct {
	X             string `json:"x"`
	Y             string `json:"y"`
	R             string `json:"r"`
	Result        string `json:"result"`
	CurrentTime   string `json:"currentTime"`
	ExecutionTime string `json:"executionTime"`
	Class         string `json:"class"`
}

// Cells returns the row's cells in column order.
func (r TableRow) Cells() []string {
	return []string{r.X, r.Y, r.R, r.Result, r.CurrentTime, r.ExecutionTime}
}

// TableHeaders lists the column titles in the order returned by Cells.
var TableHeaders = []string{"X", "Y", "R", "Result", "Time", "Execution (ms)"}
