package benchmark

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// DefaultReferenceName names the machine the baselines were recorded on.
const DefaultReferenceName = "Apple M1"

// Column widths of the comparison table.
const (
	LabelWidth  = 80
	NumberWidth = 8
	DiffWidth   = 16
)

// Row is one rendered line of the comparison table.
type Row struct {
	Label string
	Mean  string
	Min   string
	Max   string
	Runs  string
	Diff  string
}

// Fields returns the row's cells in column order.
func (r Row) Fields() []string {
	return []string{r.Label, r.Mean, r.Min, r.Max, r.Runs, r.Diff}
}

// Reduce turns a measurement into a table row.
//
// Arguments:
//   - label: The workload name.
//   - m: The measurement of the workload.
//   - baseline: The reference mean to diff against.
//
// Returns:
//   - Row: The formatted cells.
func Reduce(label string, m Measurement, baseline time.Duration) Row {
	return Row{
		Label: label,
		Mean:  FormatDuration(m.Mean),
		Min:   FormatDuration(m.Min),
		Max:   FormatDuration(m.Max),
		Runs:  strconv.Itoa(m.Count),
		Diff:  FormatDiff(m.Diff(baseline)),
	}
}

// widthCondition measures display width with ambiguous runes (μ) as one column
// regardless of the terminal locale.
var widthCondition = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// Pad pads s with trailing spaces to width, or cuts it to width when longer.
func Pad(s string, width int) string {
	return widthCondition.FillRight(widthCondition.Truncate(s, width, ""), width)
}

// Table writes the fixed-width comparison table.
type Table struct {
	w         io.Writer
	reference string
	widths    []int
}

// NewTable creates a table writing to w whose diff column is titled after the
// reference machine.
func NewTable(w io.Writer, reference string) *Table {
	if reference == "" {
		reference = DefaultReferenceName
	}
	return &Table{
		w:         w,
		reference: reference,
		widths:    []int{LabelWidth, NumberWidth, NumberWidth, NumberWidth, NumberWidth, DiffWidth},
	}
}

// FormatRow pads every field to its column and joins them with " | ".
func (t *Table) FormatRow(fields []string) string {
	cells := make([]string, len(t.widths))
	for i, width := range t.widths {
		var field string
		if i < len(fields) {
			field = fields[i]
		}
		cells[i] = Pad(field, width)
	}
	return "| " + strings.Join(cells, " | ") + " |"
}

// Header returns the title row.
func (t *Table) Header() string {
	return t.FormatRow([]string{"Test", "Mean", "Min", "Max", "Runs", "Diff to " + t.reference})
}

// Separator returns the dashed row below the header.
func (t *Table) Separator() string {
	dashes := make([]string, len(t.widths))
	for i, width := range t.widths {
		dashes[i] = strings.Repeat("-", width+2)
	}
	return "|" + strings.Join(dashes, "|") + "|"
}

// WriteHeader writes the header and separator rows.
func (t *Table) WriteHeader() error {
	_, err := fmt.Fprintf(t.w, "%s\n%s\n", t.Header(), t.Separator())
	return err
}

// WriteRow writes a single data row.
func (t *Table) WriteRow(row Row) error {
	_, err := fmt.Fprintln(t.w, t.FormatRow(row.Fields()))
	return err
}
