package heads

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Column is one of the three logical columns of the table.
type Column int

// Logical columns in table order.
const (
	ColumnState Column = iota
	ColumnHeadOfState
	ColumnHeadOfGovernment

	columnCount = 3
)

// String returns the column name used in logs.
func (c Column) String() string {
	switch c {
	case ColumnState:
		return "state"
	case ColumnHeadOfState:
		return "headOfState"
	case ColumnHeadOfGovernment:
		return "headOfGovernment"
	}
	return fmt.Sprintf("column(%d)", int(c))
}

func (c Column) role() Role {
	switch c {
	case ColumnState:
		return RoleState
	case ColumnHeadOfState:
		return RoleHeadOfState
	}
	return RoleHeadOfGovernment
}

// SpanCounters holds, per logical column, how many more rows are covered by
// a row span declared on an earlier row.
type SpanCounters [columnCount]int

// Covered reports whether the column is covered by an earlier row span.
func (c SpanCounters) Covered(col Column) bool {
	return c[col] > 0
}

func (c SpanCounters) allCovered() bool {
	for _, n := range c {
		if n <= 0 {
			return false
		}
	}
	return true
}

// CellAttrs are the span attributes of one physical cell. An empty value
// means the attribute is absent.
type CellAttrs struct {
	RowSpan string
	ColSpan string
}

// Assignment maps a physical cell of a row to the role it fills.
type Assignment struct {
	Cell int
	Role Role
}

// Diagnostic is a non-fatal observation made while resolving a row.
type Diagnostic struct {
	Level  slog.Level
	Msg    string
	Column Column
	Value  string
}

// RowPlan is the outcome of resolving one table row.
type RowPlan struct {
	Counters    SpanCounters
	Assignments []Assignment
	Diagnostics []Diagnostic
}

func (p *RowPlan) debug(col Column, msg string, value string) {
	p.Diagnostics = append(p.Diagnostics, Diagnostic{Level: slog.LevelDebug, Msg: msg, Column: col, Value: value})
}

func (p *RowPlan) warn(col Column, msg string, value string) {
	p.Diagnostics = append(p.Diagnostics, Diagnostic{Level: slog.LevelWarn, Msg: msg, Column: col, Value: value})
}

// ResolveRow decides which logical columns of a row are filled by which
// physical cells, given the row spans still pending from earlier rows.
//
// Columns are resolved left to right. A column whose counter is positive is
// covered by an earlier row: its counter is decremented and no cell is read
// for it. Otherwise the next unread cell fills the column; a valid rowspan on
// that cell sets the counter of every column the cell covers to rowspan-1.
// A colspan of 2 on the state cell also covers the head-of-state column; on
// the head-of-state cell it merges head of state and head of government into
// RoleHeadOfStateAndGovernment. Any other colspan is reported and ignored.
//
// A row whose three columns are all covered cannot be resolved and returns
// an EMALFORMED error. Running out of cells is reported, not fatal.
func ResolveRow(counters SpanCounters, cells []CellAttrs) (RowPlan, error) {
	plan := RowPlan{Counters: counters}
	if counters.allCovered() {
		return plan, Errorf(EMALFORMED, "row spans every column (row spans %v)", [columnCount]int(counters))
	}

	var filled [columnCount]bool
	next := 0

	for col := ColumnState; col < columnCount; col++ {
		if filled[col] {
			continue
		}

		if plan.Counters.Covered(col) {
			plan.Counters[col]--
			plan.debug(col, "column covered by row span", strconv.Itoa(plan.Counters[col]))
			continue
		}

		if next >= len(cells) {
			plan.warn(col, "missing cell", "")
			continue
		}
		idx := next
		next++

		cell := cells[idx]
		width := plan.colSpan(col, cell.ColSpan)
		role := col.role()
		if col == ColumnHeadOfState && width == 2 {
			role = RoleHeadOfStateAndGovernment
		}

		for c := col + 1; c < col+Column(width); c++ {
			if plan.Counters.Covered(c) {
				plan.Counters[c]--
				plan.warn(c, "column span overlaps pending row span", cell.ColSpan)
			}
			filled[c] = true
		}

		if height, ok := plan.rowSpan(col, cell.RowSpan); ok {
			for c := col; c < col+Column(width); c++ {
				plan.Counters[c] = height - 1
			}
			plan.debug(col, "row span opened", strconv.Itoa(height-1))
		}

		plan.Assignments = append(plan.Assignments, Assignment{Cell: idx, Role: role})
	}

	return plan, nil
}

// rowSpan parses a rowspan attribute. It reports false when the attribute is
// absent or not a positive integer.
func (p *RowPlan) rowSpan(col Column, raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		p.warn(col, "invalid rowspan ignored", raw)
		return 0, false
	}
	return n, true
}

// colSpan returns how many logical columns a cell read for col covers.
func (p *RowPlan) colSpan(col Column, raw string) int {
	if raw == "" {
		return 1
	}
	if col == ColumnHeadOfGovernment {
		p.warn(col, "colspan on last column ignored", raw)
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > 2 {
		p.warn(col, "invalid colspan ignored", raw)
		return 1
	}
	return n
}
