package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/couplespace/internal/common"
	"github.com/dmitrijs2005/couplespace/internal/journal"
)

// LedgerTotals sums a ledger section.
type LedgerTotals struct {
	Income  float64
	Expense float64
}

func (t LedgerTotals) Balance() float64 { return t.Income - t.Expense }

// SumLedger reads amounts back from the structured form of a ledger section.
// Entries typed "income" count as income, everything else as expense.
func SumLedger(s RenderedSection) (LedgerTotals, error) {
	var items []journal.Record
	if err := json.Unmarshal([]byte(s.StructuredText), &items); err != nil {
		return LedgerTotals{}, fmt.Errorf("ledger: %w: %v", common.ErrSerializationFailure, err)
	}
	var t LedgerTotals
	for _, it := range items {
		n, ok := it.Number("amount")
		if !ok {
			continue
		}
		if kind, _ := it.Text("type"); kind == "income" {
			t.Income += abs(n)
		} else {
			t.Expense += abs(n)
		}
	}
	return t, nil
}

func abs(n float64) float64 {
	if n < 0 {
		return -n
	}
	return n
}

// AssembleAnnualReport writes the yearly Markdown report: a count table per
// category, ledger totals when there are ledger entries, then the narrative
// of every non-empty section. Sections should be rendered at heading level 2.
func (a *Assembler) AssembleAnnualReport(year int, sections []RenderedSection, exportedAt time.Time) (Artifact, error) {
	filled := nonEmpty(sections)
	lb := labelsFor(a.Locale)

	total := 0
	for _, s := range filled {
		total += s.ItemCount
	}
	if total == 0 {
		return Artifact{}, fmt.Errorf("report %d: %w", year, common.ErrEmptyBackupWindow)
	}

	var b strings.Builder
	b.WriteString(heading(1, fmt.Sprintf(lb.reportTitle, year)))
	b.WriteString("\n\n")
	b.WriteString(labeled(lb.exportedAt, a.localTime(exportedAt)))
	b.WriteString("\n\n")

	b.WriteString(heading(2, lb.overview))
	b.WriteString("\n\n")
	b.WriteString("| " + lb.category + " | " + lb.items + " |\n")
	b.WriteString("| --- | --- |\n")
	for _, s := range filled {
		b.WriteString("| " + s.Category.DisplayName + " | " + strconv.Itoa(s.ItemCount) + " |\n")
	}
	b.WriteString("| " + lb.total + " | " + strconv.Itoa(total) + " |\n\n")

	for _, s := range filled {
		if s.Category.Kind != journal.KindLedger {
			continue
		}
		totals, err := SumLedger(s)
		if err != nil {
			return Artifact{}, err
		}
		b.WriteString(heading(2, lb.ledger))
		b.WriteString("\n\n")
		b.WriteString(labeled(lb.income, SignedAmount(totals.Income, "income")))
		b.WriteString("\n\n")
		b.WriteString(labeled(lb.expense, SignedAmount(totals.Expense, "expense")))
		b.WriteString("\n\n")
		b.WriteString(labeled(lb.balance, balance(totals.Balance())))
		b.WriteString("\n\n")
	}

	for _, s := range filled {
		b.WriteString(s.NarrativeText)
	}

	return Artifact{Filename: AnnualReportFilename(year), MimeType: MimeMarkdown, Bytes: []byte(b.String())}, nil
}

func balance(n float64) string {
	if n < 0 {
		return SignedAmount(n, "expense")
	}
	return currencyGlyph + strconv.FormatFloat(n, 'f', -1, 64)
}
