package output

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/roh-tools/trailbulk/internal/executor"
)

// TableFormatter formats the report as a table (kubectl-style)
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{options: opts}
}

// FormatReport writes the run report as a header line, a failure table when
// any barcode failed, and a one-line summary
func (f *TableFormatter) FormatReport(w io.Writer, report executor.Report) error {
	colors := NewColorScheme(w, f.options.NoColor)

	f.printTitle(w, colors)

	if len(report.Failures) > 0 {
		f.printFailures(w, report.Failures, colors)
		fmt.Fprintln(w, "")
	}

	f.printSummary(w, report, colors)

	return nil
}

// printTitle prints the reservation the run targeted, when known
func (f *TableFormatter) printTitle(w io.Writer, colors *ColorScheme) {
	if f.options.Reservation == "" {
		return
	}

	title := fmt.Sprintf("Reservation %s", f.options.Reservation)
	if f.options.Site != "" {
		title += fmt.Sprintf(" on %s", f.options.Site)
	}

	if !colors.Disabled {
		title = colors.Header(title)
	}

	fmt.Fprintln(w, title)
	fmt.Fprintln(w, "")
}

// printFailures renders one row per failed barcode
func (f *TableFormatter) printFailures(w io.Writer, failures []executor.Outcome, colors *ColorScheme) {
	table := f.createTable(w)

	if !f.options.NoHeaders {
		headers := []string{"BARCODE", "ERROR", "DURATION"}
		if colors.Disabled {
			table.SetHeader(headers)
		} else {
			coloredHeaders := make([]string, len(headers))
			for i, h := range headers {
				coloredHeaders[i] = colors.Header(h)
			}
			table.SetHeader(coloredHeaders)
		}
	}

	for _, failure := range failures {
		table.Append(f.formatFailureRow(failure, colors))
	}

	table.Render()
}

// formatFailureRow formats a single failed barcode as a table row
func (f *TableFormatter) formatFailureRow(failure executor.Outcome, colors *ColorScheme) []string {
	barcode := failure.Barcode
	if !colors.Disabled {
		barcode = colors.Barcode(barcode)
	}

	reason := ""
	if failure.Err != nil {
		reason = failure.Err.Error()
	}
	if !colors.Disabled {
		reason = colors.Error(reason)
	}

	// Zero duration means the barcode was never dispatched
	duration := "-"
	if failure.Duration > 0 {
		duration = failure.Duration.Round(time.Millisecond).String()
	}
	if !colors.Disabled {
		duration = colors.Duration(duration)
	}

	return []string{barcode, reason, duration}
}

// createTable creates a new table with kubectl-style configuration
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	// kubectl-style configuration
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t") // Tab-separated like kubectl
	table.SetNoWhiteSpace(true)

	return table
}

// printSummary prints a summary of the run
func (f *TableFormatter) printSummary(w io.Writer, report executor.Report, colors *ColorScheme) {
	fmt.Fprintf(w, "Summary: ")

	addedText := fmt.Sprintf("%d added", report.Successful)
	if !colors.Disabled {
		addedText = colors.Success(addedText)
	}

	failedText := fmt.Sprintf("%d failed", report.Failed())
	if !colors.Disabled {
		failedText = colors.StatusColor(report.Failed() > 0)(failedText)
	}

	elapsedText := fmt.Sprintf("elapsed=%s", report.Elapsed.Round(time.Millisecond))
	if !colors.Disabled {
		elapsedText = colors.Duration(elapsedText)
	}

	fmt.Fprintf(w, "%s, %s, %s\n", addedText, failedText, elapsedText)
}
