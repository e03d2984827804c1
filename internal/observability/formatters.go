// Package observability provides formatted output utilities for the dry-run
// report and run summaries.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/jmorel/offerlens/internal/batch"
	"github.com/jmorel/offerlens/internal/db"
	"github.com/jmorel/offerlens/internal/enrich"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for dry-run and verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintEnrichedOffer outputs a human-readable view of one enrichment record,
// used by the dry-run report.
func (p *Printer) PrintEnrichedOffer(offer db.Offer, rec enrich.Record) {
	var sb strings.Builder

	title := offer.Title
	if title == "" {
		title = "(sans titre)"
	}
	sb.WriteString(fmt.Sprintf("Offer:    #%d %s\n", offer.ID, title))
	if rec.Profile != "" {
		sb.WriteString(fmt.Sprintf("Profile:  %s (%d%%)\n", rec.Profile, rec.ProfileConfidence))
	}
	sb.WriteString("\n")

	if len(rec.AllTechnical) > 0 {
		sb.WriteString("Technical skills:\n")
		writeSkillList(&sb, rec.AllTechnical)
		sb.WriteString("\n")
	}
	if len(rec.AllSoft) > 0 {
		sb.WriteString("Soft skills:\n")
		writeSkillList(&sb, rec.AllSoft)
		sb.WriteString("\n")
	}

	if rec.Salary != nil {
		sb.WriteString(fmt.Sprintf("Salary:     %d - %d €/an\n", rec.Salary.MinAnnual, rec.Salary.MaxAnnual))
	}
	if rec.Experience != nil {
		if rec.Experience.MaxYears > 0 {
			sb.WriteString(fmt.Sprintf("Experience: %d-%d ans\n", rec.Experience.MinYears, rec.Experience.MaxYears))
		} else {
			sb.WriteString(fmt.Sprintf("Experience: %d ans min\n", rec.Experience.MinYears))
		}
	}
	if rec.Education != nil {
		if rec.Education.DegreeType != "" {
			sb.WriteString(fmt.Sprintf("Education:  bac+%d (%s)\n", rec.Education.YearsPostBac, rec.Education.DegreeType))
		} else {
			sb.WriteString(fmt.Sprintf("Education:  bac+%d\n", rec.Education.YearsPostBac))
		}
	}
	if rec.Remote != nil {
		if rec.Remote.DaysPerWeek > 0 {
			sb.WriteString(fmt.Sprintf("Remote:     %d j/semaine (%d%%)\n", rec.Remote.DaysPerWeek, rec.Remote.Percent))
		} else {
			sb.WriteString("Remote:     mentionné\n")
		}
	}
	if len(rec.Contracts) > 0 {
		sb.WriteString(fmt.Sprintf("Contracts:  %s\n", strings.Join(rec.Contracts, ", ")))
	}

	p.printBox("ENRICHED OFFER", strings.TrimSuffix(sb.String(), "\n"))
}

func writeSkillList(sb *strings.Builder, skills []string) {
	count := min(len(skills), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", skills[i]))
	}
	if len(skills) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skills)-maxItemsToShow))
	}
}

// PrintSummary outputs the final run summary.
func (p *Printer) PrintSummary(sum batch.Summary) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("State:     %s\n", sum.State))
	if sum.RunID != uuid.Nil {
		sb.WriteString(fmt.Sprintf("Run:       %s\n", sum.RunID))
	}
	sb.WriteString(fmt.Sprintf("Processed: %d\n", sum.Processed))
	sb.WriteString(fmt.Sprintf("Skipped:   %d\n", sum.Skipped))
	sb.WriteString(fmt.Sprintf("Errors:    %d\n", sum.Errors))
	sb.WriteString(fmt.Sprintf("Batches:   %d", sum.Batches))

	p.printBox("ENRICHMENT RUN SUMMARY", sb.String())
}
