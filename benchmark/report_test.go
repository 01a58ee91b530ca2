package benchmark

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "2.50s", FormatSeconds(2.5))
	assert.Equal(t, "1.00s", FormatSeconds(1))
	assert.Equal(t, "12.30ms", FormatSeconds(0.0123))
	assert.Equal(t, "45.60μs", FormatSeconds(0.0000456))
	assert.Equal(t, "120ns", FormatSeconds(1.2e-7))
	assert.Equal(t, "0ns", FormatSeconds(0))
	assert.Equal(t, "-12.30ms", FormatSeconds(-0.0123))
	assert.Equal(t, "-3.00s", FormatSeconds(-3))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250.00ms", FormatDuration(250*time.Millisecond))
	assert.Equal(t, "1.50μs", FormatDuration(1500*time.Nanosecond))
	assert.Equal(t, "5.00s", FormatDuration(5*time.Second))
}

func TestFormatDiff(t *testing.T) {
	assert.Equal(t, "+12.00ms", FormatDiff(12*time.Millisecond))
	assert.Equal(t, "0ns", FormatDiff(0))
	assert.Equal(t, "-5.00ms", FormatDiff(-5*time.Millisecond))
}

func TestReduce(t *testing.T) {
	m := Measurement{
		Mean:  120 * time.Millisecond,
		Min:   100 * time.Millisecond,
		Max:   150 * time.Millisecond,
		Count: 42,
		Total: 42 * 120 * time.Millisecond,
	}

	row := Reduce("Compress", m, 100*time.Millisecond)
	assert.Equal(t, Row{
		Label: "Compress",
		Mean:  "120.00ms",
		Min:   "100.00ms",
		Max:   "150.00ms",
		Runs:  "42",
		Diff:  "+20.00ms",
	}, row)

	// Slower than baseline gets "+", equal or faster does not.
	assert.False(t, strings.HasPrefix(Reduce("x", m, 120*time.Millisecond).Diff, "+"))
	assert.Equal(t, "-30.00ms", Reduce("x", m, 150*time.Millisecond).Diff)
}

func TestTableRowsHaveEqualWidth(t *testing.T) {
	table := NewTable(&bytes.Buffer{}, "")

	header := table.Header()
	separator := table.Separator()
	row := table.FormatRow(Row{
		Label: "Decompress",
		Mean:  "45.60μs",
		Min:   "1.00μs",
		Max:   "2.00s",
		Runs:  "123456",
		Diff:  "+1.23ms",
	}.Fields())

	const width = 2 + LabelWidth + 4*NumberWidth + DiffWidth + 5*3 + 2
	assert.Equal(t, width, utf8.RuneCountInString(header))
	assert.Equal(t, width, utf8.RuneCountInString(separator))
	assert.Equal(t, width, utf8.RuneCountInString(row))

	assert.True(t, strings.HasPrefix(header, "| Test "))
	assert.True(t, strings.HasSuffix(header, " | Diff to Apple M1 |"))
	assert.Equal(t, "|"+strings.Repeat("-", LabelWidth+2)+"|"+strings.Repeat("-", NumberWidth+2)+"|",
		separator[:LabelWidth+NumberWidth+7])
}

func TestTableTruncatesLongFields(t *testing.T) {
	table := NewTable(&bytes.Buffer{}, "Apple M1")
	label := strings.Repeat("x", 100)

	row := table.FormatRow([]string{label, "123456789.00ms"})

	assert.Equal(t, "| "+strings.Repeat("x", LabelWidth)+" | 12345678 | ", row[:LabelWidth+16])
	assert.Equal(t, LabelWidth, len(Pad(label, LabelWidth)))
	assert.Equal(t, "ab  ", Pad("ab", 4))
	assert.Equal(t, "abcd", Pad("abcdef", 4))
}

func TestTableWrite(t *testing.T) {
	var out bytes.Buffer
	table := NewTable(&out, "Ref")

	require.NoError(t, table.WriteHeader())
	require.NoError(t, table.WriteRow(Row{Label: "a", Mean: "1.00ms", Min: "1.00ms", Max: "1.00ms", Runs: "1", Diff: "0ns"}))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Diff to Ref")
	assert.True(t, strings.HasPrefix(lines[1], "|---"))
	assert.True(t, strings.HasPrefix(lines[2], "| a "))
}
