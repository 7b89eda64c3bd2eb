// Package trail drives authenticated Trail browser sessions over Selenium
// WebDriver. A session logs in once, parks on the reservation's collect
// form, and scans barcodes into it one at a time.
package trail

import (
	"fmt"
	"strings"
	"time"
)

// Options configures access to one Trail instance and reservation.
type Options struct {
	// Site is the Trail host, e.g. "trail.example.org". A scheme or
	// trailing slash is tolerated and stripped.
	Site string

	// Reservation is the ID of the reservation assets are added to.
	Reservation string

	// Username and Password authenticate each browser session.
	Username string
	Password string

	// Headless runs Chrome without a visible window.
	Headless bool

	// WebDriverURL is the Selenium or ChromeDriver endpoint sessions are
	// started against.
	WebDriverURL string

	// Timeout bounds every wait on the remote UI. Waits are always
	// bounded; there are no indefinite polls.
	Timeout time.Duration
}

// TargetURL returns the reservation page a session drives.
func (o Options) TargetURL() string {
	return fmt.Sprintf("https://%s/reservations/%s", normalizeSite(o.Site), o.Reservation)
}

// normalizeSite strips a scheme and trailing slashes so the target URL is
// well-formed however the site was given.
func normalizeSite(site string) string {
	site = strings.TrimSpace(site)
	site = strings.TrimPrefix(site, "https://")
	site = strings.TrimPrefix(site, "http://")
	return strings.TrimRight(site, "/")
}
