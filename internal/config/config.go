// Package config resolves trailbulk's runtime configuration from flags,
// TRAIL_* environment variables, and the optional config file.
package config

import (
	"time"

	"github.com/roh-tools/trailbulk/internal/util"
	"github.com/spf13/viper"
)

// Defaults applied when neither flags, environment, nor config file set a
// value.
const (
	DefaultSessions     = 3
	DefaultTimeout      = 10 * time.Second
	DefaultWebDriverURL = "http://localhost:4444/wd/hub"
	DefaultOutput       = "table"
)

// Config is the fully resolved configuration for one bulk-add run.
type Config struct {
	// File is the path to the CSV file of asset barcodes.
	File string

	// Reservation is the Trail reservation ID to add assets to.
	Reservation string

	// Site is the Trail instance host, e.g. "trail.example.org".
	Site string

	// Username and Password authenticate browser sessions. They fall
	// back to TRAIL_USERNAME and TRAIL_PASSWORD, including values loaded
	// from a .env file.
	Username string
	Password string

	// Sessions is the number of parallel browser sessions.
	Sessions int

	// Timeout bounds every wait on the remote UI.
	Timeout time.Duration

	// Headless runs browsers without a visible window.
	Headless bool

	// WebDriverURL is the Selenium endpoint sessions are started
	// against.
	WebDriverURL string

	// Output selects the report format: table, json, or yaml.
	Output string
}

// FromViper resolves a Config from the given viper instance, which carries
// the flag > environment > config file precedence. Defaults are registered
// at the viper layer and apply only when no source sets a value, so an
// explicitly configured zero survives to Validate.
func FromViper(v *viper.Viper) *Config {
	v.SetDefault("sessions", DefaultSessions)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("webdriver", DefaultWebDriverURL)
	v.SetDefault("output", DefaultOutput)

	return &Config{
		File:         v.GetString("file"),
		Reservation:  v.GetString("reservation"),
		Site:         v.GetString("site"),
		Username:     v.GetString("username"),
		Password:     v.GetString("password"),
		Sessions:     v.GetInt("sessions"),
		Timeout:      v.GetDuration("timeout"),
		Headless:     v.GetBool("headless"),
		WebDriverURL: v.GetString("webdriver"),
		Output:       v.GetString("output"),
	}
}

// Validate checks the resolved configuration and reports every problem at
// once. A validation failure is a fatal setup error: no session is started
// until the configuration is sound.
func (c *Config) Validate() error {
	var errs util.MultiError

	if c.File == "" {
		errs.Add(util.NewValidationError("file", nil, "an asset file is required"))
	}
	if c.Reservation == "" {
		errs.Add(util.NewValidationError("reservation", nil, "a reservation ID is required"))
	}
	if c.Site == "" {
		errs.Add(util.NewValidationError("site", nil, "a Trail site is required"))
	}
	if c.Username == "" || c.Password == "" {
		errs.Add(util.ErrMissingCredentials)
	}
	if c.Sessions < 1 {
		errs.Add(util.NewValidationError("sessions", c.Sessions, "must be at least 1"))
	}
	if c.Timeout <= 0 {
		errs.Add(util.NewValidationError("timeout", c.Timeout, "must be positive"))
	}
	if c.WebDriverURL == "" {
		errs.Add(util.NewValidationError("webdriver", nil, "a WebDriver endpoint is required"))
	}

	return errs.ErrorOrNil()
}
