package performance

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const exportTimeLayout = "2006-01-02 15:04 MST"

// WriteHistoryPDF renders the plan's workflow history as a one-document PDF.
func WriteHistoryPDF(w io.Writer, p Plan) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Workflow history %s", p.ID), true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("%s workflow history", titleKind(p.Kind)))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	line := func(label, value string) {
		pdf.Cell(0, 7, tr(fmt.Sprintf("%s: %s", label, value)))
		pdf.Ln(6)
	}
	line("Plan", p.ID)
	line("Employee", p.EmployeeID)
	line("Period", p.Period)
	line("Status", string(p.Status))
	line("Supervisor", orDash(p.SupervisorID))
	line("Reviewer", orDash(p.ReviewerID))
	if rating := OverallRating(p); rating != nil {
		line("Overall rating", fmt.Sprintf("%.2f", *rating))
	}
	line("Submitted", formatStamp(p.SubmittedAt))
	line("Supervisor approved", formatStamp(p.SupervisorApprovedAt))
	line("Reviewer approved", formatStamp(p.ReviewerApprovedAt))

	thread := func(title string, comments []Comment) {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, title)
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 10)
		if len(comments) == 0 {
			pdf.Cell(0, 6, "No entries.")
			pdf.Ln(6)
			return
		}
		for _, c := range comments {
			header := fmt.Sprintf("%s  %s  (%s)", c.Timestamp.UTC().Format(exportTimeLayout), c.ActorName, c.Action)
			pdf.SetFont("Helvetica", "B", 10)
			pdf.MultiCell(0, 5, tr(header), "", "L", false)
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(c.Text), "", "L", false)
			pdf.Ln(2)
		}
	}
	thread("Supervisor comments", p.SupervisorComments)
	thread("Reviewer comments", p.ReviewerComments)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render workflow pdf: %w", err)
	}
	return nil
}

func titleKind(k Kind) string {
	if k == KindAppraisal {
		return "Appraisal"
	}
	return "Performance plan"
}

func formatStamp(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(exportTimeLayout)
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
