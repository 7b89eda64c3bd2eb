// Package output provides formatters for displaying bulk add run reports.
//
// The package supports multiple output formats (table, JSON, YAML) behind a
// single Formatter interface, so commands render a finished run the same way
// regardless of the format the user asked for.
//
// # Basic Usage
//
//	// Create a table formatter
//	formatter, err := output.NewFormatter(output.FormatTable)
//	if err != nil {
//	    return err
//	}
//
//	// Render a finished run
//	formatter.FormatReport(os.Stdout, report)
//
// # Options
//
// Formatters can be configured with functional options:
//
//	formatter, err := output.NewFormatter(
//	    output.FormatJSON,
//	    output.WithReservation("12345"),
//	    output.WithSite("trail.example.org"),
//	    output.WithNoColor(true),
//	)
//
// # Formatters
//
// Table Formatter (kubectl-style):
//   - Borderless tables with tab-separated columns
//   - One row per failed barcode, omitted when every barcode was added
//   - Color highlighting for barcodes, errors, and the summary line
//
// JSON and YAML Formatters:
//   - Machine-readable report with counts, success rate, and failures
//   - Reservation and site included when configured
//   - Suitable for scripting and automation
//
// # Color Support
//
// Colors are automatically enabled for TTY outputs and can be disabled with:
//   - WithNoColor(true) option
//   - Non-TTY output (pipes, redirects)
package output
