package tui

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/vvka-141/ingest/pkg/ingest"
)

func TestSummary_Completed(t *testing.T) {
	runID := uuid.MustParse("6f1c3f8e-6a51-4e6a-9d35-0c6b1c1d2e3f")
	res := &ingest.RunResult{
		Table:       "naics_descriptions",
		EditionDate: "2022-01-01",
		State:       ingest.StatePersisted,
		LastStage:   ingest.StatePersisted,
		Outcome:     ingest.OutcomeCompleted,
		RowsWritten: 2125,
		Edition: &ingest.EditionRecord{
			Version:     "abc1234",
			RawChecksum: "deadbeef",
			NumRecords:  2125,
			RunID:       runID,
		},
		Duration: 1500 * time.Millisecond,
	}

	out := Renderer{}.Summary(res)

	assert.Contains(t, out, "✓ naics_descriptions 2022-01-01: completed")
	assert.Contains(t, out, "PERSISTED")
	assert.Contains(t, out, runID.String())
	assert.Contains(t, out, "abc1234")
	assert.Contains(t, out, "Rows written")
	assert.Contains(t, out, "2125")
	assert.Contains(t, out, "1.5s")
}

func TestSummary_Aborted(t *testing.T) {
	tests := []struct {
		name     string
		outcome  ingest.Outcome
		symbol   string
		reason   string
		last     ingest.RunState
		contains string
	}{
		{"no-op", ingest.OutcomeNoOp, SymbolSkip, "No cleanup function defined.", ingest.StateLoaded, "ABORTED after LOADED"},
		{"dry run", ingest.OutcomeDryRun, SymbolSkip, "dry run", ingest.StateValidated, "ABORTED after VALIDATED"},
		{"failed", ingest.OutcomeFailed, SymbolCross, "schema validation failed", ingest.StateTransformed, "ABORTED after TRANSFORMED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &ingest.RunResult{
				Table: "naics", EditionDate: "2022-01-01",
				State: ingest.StateAborted, LastStage: tt.last,
				Outcome: tt.outcome, Reason: tt.reason,
			}

			out := Renderer{}.Summary(res)

			assert.Contains(t, out, tt.symbol+" naics 2022-01-01: "+tt.outcome.String())
			assert.Contains(t, out, tt.contains)
			assert.Contains(t, out, tt.reason)
			assert.NotContains(t, out, "Rows written")
			assert.NotContains(t, out, "Run ID")
		})
	}
}

func TestSummary_Nil(t *testing.T) {
	assert.Empty(t, Renderer{}.Summary(nil))
}

func TestSummary_StyledIsBoxed(t *testing.T) {
	res := &ingest.RunResult{Table: "naics", EditionDate: "2022-01-01", Outcome: ingest.OutcomeCompleted, State: ingest.StatePersisted}

	out := Renderer{Styled: true}.Summary(res)

	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "naics 2022-01-01")
}

func TestTables(t *testing.T) {
	out := Renderer{}.Tables([]ingest.TableDefinition{
		{Name: "naics", Description: "index"},
		{Name: "naics_descriptions", Description: "titles"},
	})

	assert.Equal(t, "naics               index\nnaics_descriptions  titles\n", out)
}

func TestGrid(t *testing.T) {
	out := Renderer{}.Grid([]string{"DATE", "RAW PATH"}, [][]string{
		{"2022-01-01", "data/naics/raw/naics_2022-01-01.csv"},
		{"2017-01-01", "data/naics/raw/naics_2017-01-01.csv"},
	})

	assert.Contains(t, out, "DATE")
	assert.Contains(t, out, "2017-01-01")
	assert.Contains(t, out, "data/naics/raw/naics_2022-01-01.csv")
	assert.NotContains(t, out, "╭")

	styled := Renderer{Styled: true}.Grid([]string{"DATE"}, [][]string{{"2022-01-01"}})
	assert.Contains(t, styled, "╭")
	assert.Contains(t, styled, "2022-01-01")
}
