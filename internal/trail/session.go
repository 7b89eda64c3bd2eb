package trail

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tebeka/selenium"
)

// Element locators on the Trail login page and reservation collect form.
const (
	loginEmailID    = "user_session_email"
	loginPasswordID = "user_session_password"
	loginButtonID   = "login-button"
	scanFieldID     = "reservation_item"
	collectModeID   = "scan_mode_collect"
	spinnerClass    = "throbber" // the page really calls it that
	goButtonXPath   = "/html/body/div[1]/div[2]/div/div[2]/div[2]/div[2]/div/div[1]/div/form/table/tbody/tr[1]/td[2]/button"
)

// Session is one authenticated Chrome session parked on the reservation
// page with the collect form ready. It is owned by exactly one pool worker
// at a time, so its methods are not safe for concurrent use.
//
// WebDriver round-trips cannot be interrupted once issued; instead of
// honoring context cancellation mid-operation, every wait is bounded by the
// configured timeout.
type Session struct {
	wd      selenium.WebDriver
	timeout time.Duration

	closeOnce sync.Once
}

// Apply types one barcode into the scan field, submits it, and waits for
// the confirmation spinner to clear. The session stays on the collect form
// afterwards, ready for the next barcode, whether or not the scan worked.
func (s *Session) Apply(ctx context.Context, barcode string) error {
	spinner, err := s.wd.FindElement(selenium.ByClassName, spinnerClass)
	if err != nil {
		return fmt.Errorf("progress spinner not found: %w", err)
	}
	field, err := s.wd.FindElement(selenium.ByID, scanFieldID)
	if err != nil {
		return fmt.Errorf("scan field not found: %w", err)
	}
	goButton, err := s.wd.FindElement(selenium.ByXPATH, goButtonXPath)
	if err != nil {
		return fmt.Errorf("go button not found: %w", err)
	}

	if err := field.Clear(); err != nil {
		return fmt.Errorf("failed to clear scan field: %w", err)
	}
	if err := field.SendKeys(barcode); err != nil {
		return fmt.Errorf("failed to type barcode: %w", err)
	}
	if err := goButton.Click(); err != nil {
		return fmt.Errorf("failed to submit barcode: %w", err)
	}

	// The spinner shows while Trail processes the scan. Gone means done;
	// a stale reference also means gone.
	err = s.wd.WaitWithTimeout(func(selenium.WebDriver) (bool, error) {
		displayed, err := spinner.IsDisplayed()
		if err != nil {
			return true, nil
		}
		return !displayed, nil
	}, s.timeout)
	if err != nil {
		return fmt.Errorf("scan of %s was not confirmed: %w", barcode, err)
	}

	return nil
}

// Close quits the browser. Calling it more than once is harmless.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.wd.Quit()
	})
	return err
}

// open loads the reservation page in the fresh session.
func (s *Session) open(url string) error {
	if err := s.wd.Get(url); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

// login fills in the credential form the reservation page redirects
// unauthenticated sessions to.
func (s *Session) login(username, password string) error {
	email, err := s.wd.FindElement(selenium.ByID, loginEmailID)
	if err != nil {
		return fmt.Errorf("login email field: %w", err)
	}
	if err := email.SendKeys(username); err != nil {
		return fmt.Errorf("login email field: %w", err)
	}

	pass, err := s.wd.FindElement(selenium.ByID, loginPasswordID)
	if err != nil {
		return fmt.Errorf("login password field: %w", err)
	}
	if err := pass.SendKeys(password); err != nil {
		return fmt.Errorf("login password field: %w", err)
	}

	button, err := s.wd.FindElement(selenium.ByID, loginButtonID)
	if err != nil {
		return fmt.Errorf("login button: %w", err)
	}
	if err := button.Click(); err != nil {
		return fmt.Errorf("login button: %w", err)
	}

	return nil
}

// prepareScanForm waits for the reservation page to finish loading after
// authentication, focuses the scan field, and makes sure the form is in
// collect mode.
func (s *Session) prepareScanForm() error {
	err := s.wd.WaitWithTimeout(func(wd selenium.WebDriver) (bool, error) {
		_, err := wd.FindElement(selenium.ByID, scanFieldID)
		return err == nil, nil
	}, s.timeout)
	if err != nil {
		return fmt.Errorf("scan field never appeared: %w", err)
	}

	field, err := s.wd.FindElement(selenium.ByID, scanFieldID)
	if err != nil {
		return fmt.Errorf("scan field: %w", err)
	}
	if err := field.Click(); err != nil {
		return fmt.Errorf("scan field: %w", err)
	}

	// Barcodes must be scanned in collect mode.
	radio, err := s.wd.FindElement(selenium.ByID, collectModeID)
	if err != nil {
		return fmt.Errorf("collect mode radio: %w", err)
	}
	selected, err := radio.IsSelected()
	if err != nil {
		return fmt.Errorf("collect mode radio: %w", err)
	}
	if !selected {
		if err := radio.Click(); err != nil {
			return fmt.Errorf("collect mode radio: %w", err)
		}
	}

	return nil
}
