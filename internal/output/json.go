package output

import (
	"encoding/json"
	"io"

	"github.com/roh-tools/trailbulk/internal/executor"
)

// JSONFormatter formats the report as JSON
type JSONFormatter struct {
	options *Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts *Options) *JSONFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &JSONFormatter{options: opts}
}

// FormatReport outputs the run report as JSON
func (f *JSONFormatter) FormatReport(w io.Writer, report executor.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reportDocument(f.options, report))
}

// reportDocument converts a report to a structure that serializes cleanly.
// Shared by the JSON and YAML formatters so both formats stay in sync.
func reportDocument(opts *Options, report executor.Report) map[string]interface{} {
	doc := map[string]interface{}{
		"run_id":       report.RunID,
		"total":        report.Total,
		"successful":   report.Successful,
		"failed":       report.Failed(),
		"success_rate": report.SuccessRate(),
		"elapsed":      report.Elapsed.String(),
	}

	if opts.Reservation != "" {
		doc["reservation"] = opts.Reservation
	}
	if opts.Site != "" {
		doc["site"] = opts.Site
	}

	failures := make([]map[string]interface{}, len(report.Failures))
	for i, failure := range report.Failures {
		item := map[string]interface{}{
			"barcode":  failure.Barcode,
			"duration": failure.Duration.String(),
		}
		if failure.Err != nil {
			item["error"] = failure.Err.Error()
		}
		failures[i] = item
	}
	doc["failures"] = failures

	return doc
}
