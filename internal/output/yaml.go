package output

import (
	"io"

	"github.com/roh-tools/trailbulk/internal/executor"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats the report as YAML
type YAMLFormatter struct {
	options *Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(opts *Options) *YAMLFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &YAMLFormatter{options: opts}
}

// FormatReport outputs the run report as YAML
func (f *YAMLFormatter) FormatReport(w io.Writer, report executor.Report) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(reportDocument(f.options, report))
}
