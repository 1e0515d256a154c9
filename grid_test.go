package heads_test

import (
	"log/slog"
	"testing"

	"github.com/fwojciec/heads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func warnings(plan heads.RowPlan) []heads.Diagnostic {
	var out []heads.Diagnostic
	for _, d := range plan.Diagnostics {
		if d.Level >= slog.LevelWarn {
			out = append(out, d)
		}
	}
	return out
}

func TestResolveRow(t *testing.T) {
	t.Parallel()

	t.Run("assigns three plain cells left to right", func(t *testing.T) {
		t.Parallel()

		plan, err := heads.ResolveRow(heads.SpanCounters{}, []heads.CellAttrs{{}, {}, {}})

		require.NoError(t, err)
		assert.Equal(t, []heads.Assignment{
			{Cell: 0, Role: heads.RoleState},
			{Cell: 1, Role: heads.RoleHeadOfState},
			{Cell: 2, Role: heads.RoleHeadOfGovernment},
		}, plan.Assignments)
		assert.Equal(t, heads.SpanCounters{}, plan.Counters)
		assert.Empty(t, warnings(plan))
	})

	t.Run("state rowspan covers the state column of the next row", func(t *testing.T) {
		t.Parallel()

		first, err := heads.ResolveRow(heads.SpanCounters{}, []heads.CellAttrs{{RowSpan: "2"}, {}, {}})
		require.NoError(t, err)
		assert.Equal(t, heads.SpanCounters{1, 0, 0}, first.Counters)

		second, err := heads.ResolveRow(first.Counters, []heads.CellAttrs{{}, {}})
		require.NoError(t, err)
		assert.Equal(t, []heads.Assignment{
			{Cell: 0, Role: heads.RoleHeadOfState},
			{Cell: 1, Role: heads.RoleHeadOfGovernment},
		}, second.Assignments)
		assert.Equal(t, heads.SpanCounters{0, 0, 0}, second.Counters)
	})

	t.Run("reads head of government when state and head of state are covered", func(t *testing.T) {
		t.Parallel()

		plan, err := heads.ResolveRow(heads.SpanCounters{2, 1, 0}, []heads.CellAttrs{{}})

		require.NoError(t, err)
		assert.Equal(t, []heads.Assignment{{Cell: 0, Role: heads.RoleHeadOfGovernment}}, plan.Assignments)
		assert.Equal(t, heads.SpanCounters{1, 0, 0}, plan.Counters)
	})

	t.Run("reads head of state when head of government is covered", func(t *testing.T) {
		t.Parallel()

		plan, err := heads.ResolveRow(heads.SpanCounters{0, 0, 3}, []heads.CellAttrs{{}, {}})

		require.NoError(t, err)
		assert.Equal(t, []heads.Assignment{
			{Cell: 0, Role: heads.RoleState},
			{Cell: 1, Role: heads.RoleHeadOfState},
		}, plan.Assignments)
		assert.Equal(t, heads.SpanCounters{0, 0, 2}, plan.Counters)
	})

	t.Run("fails when every column is covered", func(t *testing.T) {
		t.Parallel()

		counters := heads.SpanCounters{1, 1, 1}
		plan, err := heads.ResolveRow(counters, []heads.CellAttrs{{}})

		require.Error(t, err)
		assert.Equal(t, heads.EMALFORMED, heads.ErrorCode(err))
		assert.Equal(t, counters, plan.Counters)
		assert.Empty(t, plan.Assignments)
	})

	t.Run("merges head of state and government on colspan 2", func(t *testing.T) {
		t.Parallel()

		plan, err := heads.ResolveRow(heads.SpanCounters{}, []heads.CellAttrs{{}, {ColSpan: "2"}})

		require.NoError(t, err)
		assert.Equal(t, []heads.Assignment{
			{Cell: 0, Role: heads.RoleState},
			{Cell: 1, Role: heads.RoleHeadOfStateAndGovernment},
		}, plan.Assignments)
		assert.Empty(t, warnings(plan))
	})

	t.Run("merged cell rowspan covers both head columns", func(t *testing.T) {
		t.Parallel()

		plan, err := heads.ResolveRow(heads.SpanCounters{}, []heads.CellAttrs{{}, {RowSpan: "3", ColSpan: "2"}})

		require.NoError(t, err)
		assert.Equal(t, heads.SpanCounters{0, 2, 2}, plan.Counters)
	})

	t.Run("merged cell under a covered state column", func(t *testing.T) {
		t.Parallel()

		plan, err := heads.ResolveRow(heads.SpanCounters{1, 0, 0}, []heads.CellAttrs{{ColSpan: "2"}})

		require.NoError(t, err)
		assert.Equal(t, []heads.Assignment{{Cell: 0, Role: heads.RoleHeadOfStateAndGovernment}}, plan.Assignments)
		assert.Equal(t, heads.SpanCounters{0, 0, 0}, plan.Counters)
	})

	t.Run("colspan 1 on head of state is a plain cell", func(t *testing.T) {
		t.Parallel()

		plan, err := heads.ResolveRow(heads.SpanCounters{}, []heads.CellAttrs{{}, {ColSpan: "1"}, {}})

		require.NoError(t, err)
		assert.Equal(t, heads.RoleHeadOfState, plan.Assignments[1].Role)
		assert.Equal(t, heads.RoleHeadOfGovernment, plan.Assignments[2].Role)
	})

	t.Run("state colspan 2 leaves only head of government to read", func(t *testing.T) {
		t.Parallel()

		plan, err := heads.ResolveRow(heads.SpanCounters{}, []heads.CellAttrs{{ColSpan: "2"}, {}})

		require.NoError(t, err)
		assert.Equal(t, []heads.Assignment{
			{Cell: 0, Role: heads.RoleState},
			{Cell: 1, Role: heads.RoleHeadOfGovernment},
		}, plan.Assignments)
	})

	t.Run("warns on missing cell and keeps going", func(t *testing.T) {
		t.Parallel()

		plan, err := heads.ResolveRow(heads.SpanCounters{}, []heads.CellAttrs{{}, {}})

		require.NoError(t, err)
		assert.Len(t, plan.Assignments, 2)
		warns := warnings(plan)
		require.Len(t, warns, 1)
		assert.Equal(t, "missing cell", warns[0].Msg)
		assert.Equal(t, heads.ColumnHeadOfGovernment, warns[0].Column)
	})

	t.Run("empty row under pending spans still consumes them", func(t *testing.T) {
		t.Parallel()

		plan, err := heads.ResolveRow(heads.SpanCounters{1, 0, 2}, nil)

		require.NoError(t, err)
		assert.Empty(t, plan.Assignments)
		assert.Equal(t, heads.SpanCounters{0, 0, 1}, plan.Counters)
		assert.Len(t, warnings(plan), 1)
	})

	t.Run("ignores unparseable rowspan", func(t *testing.T) {
		t.Parallel()

		plan, err := heads.ResolveRow(heads.SpanCounters{}, []heads.CellAttrs{{RowSpan: "two"}, {}, {}})

		require.NoError(t, err)
		assert.Equal(t, heads.SpanCounters{}, plan.Counters)
		warns := warnings(plan)
		require.Len(t, warns, 1)
		assert.Equal(t, "invalid rowspan ignored", warns[0].Msg)
		assert.Equal(t, "two", warns[0].Value)
	})

	t.Run("ignores non-positive rowspan", func(t *testing.T) {
		t.Parallel()

		plan, err := heads.ResolveRow(heads.SpanCounters{}, []heads.CellAttrs{{}, {RowSpan: "0"}, {}})

		require.NoError(t, err)
		assert.Equal(t, heads.SpanCounters{}, plan.Counters)
		assert.Len(t, warnings(plan), 1)
	})

	t.Run("rowspan 1 opens no span", func(t *testing.T) {
		t.Parallel()

		plan, err := heads.ResolveRow(heads.SpanCounters{}, []heads.CellAttrs{{RowSpan: "1"}, {}, {}})

		require.NoError(t, err)
		assert.Equal(t, heads.SpanCounters{}, plan.Counters)
		assert.Empty(t, warnings(plan))
	})

	t.Run("warns on colspan for head of government", func(t *testing.T) {
		t.Parallel()

		plan, err := heads.ResolveRow(heads.SpanCounters{}, []heads.CellAttrs{{}, {}, {ColSpan: "2"}})

		require.NoError(t, err)
		assert.Len(t, plan.Assignments, 3)
		warns := warnings(plan)
		require.Len(t, warns, 1)
		assert.Equal(t, heads.ColumnHeadOfGovernment, warns[0].Column)
	})

	t.Run("warns on colspan wider than the table", func(t *testing.T) {
		t.Parallel()

		plan, err := heads.ResolveRow(heads.SpanCounters{}, []heads.CellAttrs{{}, {ColSpan: "3"}, {}})

		require.NoError(t, err)
		assert.Equal(t, heads.RoleHeadOfState, plan.Assignments[1].Role)
		assert.Len(t, warnings(plan), 1)
	})

	t.Run("merged cell consumes an overlapping row span", func(t *testing.T) {
		t.Parallel()

		plan, err := heads.ResolveRow(heads.SpanCounters{0, 0, 2}, []heads.CellAttrs{{}, {ColSpan: "2"}})

		require.NoError(t, err)
		assert.Equal(t, heads.SpanCounters{0, 0, 1}, plan.Counters)
		warns := warnings(plan)
		require.Len(t, warns, 1)
		assert.Equal(t, "column span overlaps pending row span", warns[0].Msg)
	})

	t.Run("extra cells are left unassigned", func(t *testing.T) {
		t.Parallel()

		plan, err := heads.ResolveRow(heads.SpanCounters{}, []heads.CellAttrs{{}, {}, {}, {}})

		require.NoError(t, err)
		assert.Len(t, plan.Assignments, 3)
	})
}

func TestColumn_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "state", heads.ColumnState.String())
	assert.Equal(t, "headOfState", heads.ColumnHeadOfState.String())
	assert.Equal(t, "headOfGovernment", heads.ColumnHeadOfGovernment.String())
}
