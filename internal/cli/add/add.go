// Package add implements the trailbulk add command, which reads asset
// barcodes from a CSV file and adds them to a Trail reservation using a
// pool of concurrent browser sessions.
package add

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/roh-tools/trailbulk/internal/assets"
	"github.com/roh-tools/trailbulk/internal/config"
	"github.com/roh-tools/trailbulk/internal/executor"
	"github.com/roh-tools/trailbulk/internal/output"
	"github.com/roh-tools/trailbulk/internal/trail"
	"github.com/roh-tools/trailbulk/internal/util"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewAddCmd creates the add command
func NewAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add assets to a reservation from a barcode file",
		Long: `Add every asset barcode in a CSV file to a Trail reservation.

Barcodes are read from the first column of the file and distributed across
a pool of browser sessions. Each session logs in once, opens the
reservation's collect form, and scans one barcode at a time. Barcodes that
cannot be added are listed in the final report; the command exits non-zero
when any barcode failed.`,
		Example: `  # Add every barcode in assets.csv to reservation 12345
  trailbulk add -f assets.csv -r 12345 -s trail.example.org

  # Credentials from flags instead of TRAIL_USERNAME / TRAIL_PASSWORD
  trailbulk add -f assets.csv -r 12345 -s trail.example.org -u me@example.org -p secret

  # Six browser sessions against a remote Selenium hub
  trailbulk add -f assets.csv -r 12345 -s trail.example.org -n 6 --webdriver http://hub:4444/wd/hub

  # Watch the browsers work
  trailbulk add -f assets.csv -r 12345 -s trail.example.org --headless=false

  # Machine-readable report for scripting
  trailbulk add -f assets.csv -r 12345 -s trail.example.org -o json -q`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context())
		},
	}

	cmd.Flags().StringP("file", "f", "", "path to the barcode CSV file")
	cmd.Flags().StringP("reservation", "r", "", "reservation ID to add assets to")
	cmd.Flags().StringP("site", "s", "", "Trail site, e.g. trail.example.org")
	cmd.Flags().StringP("username", "u", "", "Trail username (or TRAIL_USERNAME)")
	cmd.Flags().StringP("password", "p", "", "Trail password (or TRAIL_PASSWORD)")
	cmd.Flags().IntP("sessions", "n", config.DefaultSessions, "number of concurrent browser sessions")
	cmd.Flags().Bool("headless", true, "run browsers headless (set --headless=false to watch)")
	cmd.Flags().String("webdriver", config.DefaultWebDriverURL, "Selenium WebDriver endpoint")

	// Bind flags to viper so TRAIL_* environment variables and the config
	// file can supply any of them
	viper.BindPFlag("file", cmd.Flags().Lookup("file"))
	viper.BindPFlag("reservation", cmd.Flags().Lookup("reservation"))
	viper.BindPFlag("site", cmd.Flags().Lookup("site"))
	viper.BindPFlag("username", cmd.Flags().Lookup("username"))
	viper.BindPFlag("password", cmd.Flags().Lookup("password"))
	viper.BindPFlag("sessions", cmd.Flags().Lookup("sessions"))
	viper.BindPFlag("headless", cmd.Flags().Lookup("headless"))
	viper.BindPFlag("webdriver", cmd.Flags().Lookup("webdriver"))

	return cmd
}

func runAdd(ctx context.Context) error {
	logger := slog.Default()

	cfg := config.FromViper(viper.GetViper())
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Debug("resolved configuration",
		"file", cfg.File,
		"reservation", cfg.Reservation,
		"site", cfg.Site,
		"sessions", cfg.Sessions,
		"headless", cfg.Headless,
		"webdriver", cfg.WebDriverURL,
		"timeout", cfg.Timeout)

	// Resolve the formatter before anything expensive so a bad --output
	// fails before the first browser starts
	formatter, err := output.NewFormatter(output.Format(cfg.Output),
		output.WithReservation(cfg.Reservation),
		output.WithSite(cfg.Site),
		output.WithNoColor(viper.GetBool("no-color")),
	)
	if err != nil {
		return err
	}

	barcodes, err := assets.Load(cfg.File)
	if err != nil {
		return err
	}
	if len(barcodes) == 0 {
		return fmt.Errorf("%w in %s", util.ErrNoAssets, cfg.File)
	}

	logger.Info("loaded assets", "file", cfg.File, "count", len(barcodes))

	factory := trail.NewFactory(trail.Options{
		Site:         cfg.Site,
		Reservation:  cfg.Reservation,
		Username:     cfg.Username,
		Password:     cfg.Password,
		Headless:     cfg.Headless,
		WebDriverURL: cfg.WebDriverURL,
		Timeout:      cfg.Timeout,
	}, logger)

	pool, err := executor.New(cfg.Sessions, factory, logger)
	if err != nil {
		return err
	}

	quiet := viper.GetBool("quiet")

	var progress executor.ProgressFunc
	if !quiet {
		fmt.Printf("Adding %d asset(s) to reservation %s with up to %d browser session(s)...\n\n",
			len(barcodes), cfg.Reservation, pool.Size())

		bar := progressbar.Default(int64(len(barcodes)), "Adding assets")
		progress = func(completed, total int, pct float64) {
			_ = bar.Add(1)
		}
	}

	report := pool.Run(ctx, barcodes, progress)

	if err := formatter.FormatReport(os.Stdout, report); err != nil {
		return err
	}

	if report.Failed() > 0 {
		return fmt.Errorf("%d of %d assets could not be added", report.Failed(), report.Total)
	}

	return nil
}
