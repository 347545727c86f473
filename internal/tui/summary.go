package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/vvka-141/ingest/pkg/ingest"
)

// Renderer formats run reports for the console. Styling is applied only
// when Styled is true.
type Renderer struct {
	Styled bool
}

// NewRenderer returns a renderer that styles output in interactive mode.
func NewRenderer() Renderer {
	return Renderer{Styled: IsInteractive()}
}

func (r Renderer) apply(style lipgloss.Style, s string) string {
	if !r.Styled {
		return s
	}
	return style.Render(s)
}

// Summary renders the result of one run.
func (r Renderer) Summary(res *ingest.RunResult) string {
	if res == nil {
		return ""
	}

	symbol, style := outcomeMarker(res.Outcome)
	header := fmt.Sprintf("%s %s %s: %s", symbol, res.Table, res.EditionDate, res.Outcome)

	rows := [][2]string{
		{"State", stateLine(res)},
	}
	if res.Reason != "" {
		rows = append(rows, [2]string{"Reason", res.Reason})
	}
	if res.Edition != nil {
		rows = append(rows,
			[2]string{"Run ID", res.Edition.RunID.String()},
			[2]string{"Version", res.Edition.Version},
			[2]string{"Checksum", res.Edition.RawChecksum},
			[2]string{"Records", fmt.Sprint(res.Edition.NumRecords)},
		)
	}
	if res.Outcome == ingest.OutcomeCompleted {
		rows = append(rows, [2]string{"Rows written", fmt.Sprint(res.RowsWritten)})
	}
	rows = append(rows, [2]string{"Duration", res.Duration.Round(time.Millisecond).String()})

	var b strings.Builder
	b.WriteString(r.apply(style.Bold(true), header))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(r.apply(LabelStyle, fmt.Sprintf("  %-13s", row[0])))
		b.WriteString(r.apply(ValueStyle, row[1]))
	}

	if !r.Styled {
		return b.String() + "\n"
	}
	return BoxStyle.Render(b.String()) + "\n"
}

// Tables renders a name/description listing.
func (r Renderer) Tables(defs []ingest.TableDefinition) string {
	width := 0
	for _, d := range defs {
		width = max(width, len(d.Name))
	}

	var b strings.Builder
	for _, d := range defs {
		b.WriteString(r.apply(TitleStyle, fmt.Sprintf("%-*s", width, d.Name)))
		b.WriteString("  ")
		b.WriteString(r.apply(DescriptionStyle, d.Description))
		b.WriteString("\n")
	}
	return b.String()
}

// Grid renders rows under headers. Styled output gets a rounded border.
func (r Renderer) Grid(headers []string, rows [][]string) string {
	t := table.New().Headers(headers...).Rows(rows...)
	if r.Styled {
		t = t.Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(ColorSecondary)).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return TitleStyle.Padding(0, 1)
				}
				return ValueStyle.Padding(0, 1)
			})
	} else {
		t = t.Border(lipgloss.HiddenBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				return lipgloss.NewStyle().PaddingRight(2)
			})
	}
	return t.Render() + "\n"
}

func stateLine(res *ingest.RunResult) string {
	if res.State == ingest.StateAborted {
		return fmt.Sprintf("%s after %s", res.State, res.LastStage)
	}
	return res.State.String()
}

func outcomeMarker(o ingest.Outcome) (string, lipgloss.Style) {
	switch o {
	case ingest.OutcomeCompleted:
		return SymbolCheck, SuccessStyle
	case ingest.OutcomeFailed:
		return SymbolCross, ErrorStyle
	default:
		return SymbolSkip, WarningStyle
	}
}
