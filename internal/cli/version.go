package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/roh-tools/trailbulk/internal/output"
	"github.com/roh-tools/trailbulk/pkg/version"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display the version, commit, and build details for this trailbulk binary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd)
		},
	}
}

func runVersion(cmd *cobra.Command) error {
	info := version.Get()
	out := cmd.OutOrStdout()

	// The persistent --output flag selects the format. Unset means the
	// single-line summary.
	format, _ := cmd.Flags().GetString("output")

	switch output.Format(format) {
	case output.FormatJSON:
		data, err := info.JSON()
		if err != nil {
			return fmt.Errorf("failed to render version info as JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case output.FormatYAML:
		data, err := yaml.Marshal(info)
		if err != nil {
			return fmt.Errorf("failed to render version info as YAML: %w", err)
		}
		fmt.Fprint(out, string(data))
	case output.FormatTable:
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FIELD\tVALUE")
		fmt.Fprintf(w, "Version\t%s\n", info.Version)
		fmt.Fprintf(w, "Commit\t%s\n", info.Commit)
		fmt.Fprintf(w, "Build Time\t%s\n", info.BuildTime)
		fmt.Fprintf(w, "Go Version\t%s\n", info.GoVersion)
		fmt.Fprintf(w, "Platform\t%s\n", info.Platform)
		return w.Flush()
	default:
		fmt.Fprintln(out, info.String())
	}
	return nil
}
