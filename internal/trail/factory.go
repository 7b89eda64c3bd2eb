package trail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roh-tools/trailbulk/internal/executor"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

var (
	_ executor.Session = (*Session)(nil)
	_ executor.Factory = (*Factory)(nil)
)

// Factory starts authenticated Trail browser sessions. It implements
// executor.Factory for the worker pool.
type Factory struct {
	opts   Options
	logger *slog.Logger
}

// NewFactory returns a factory for the given Trail instance. The options
// are expected to be validated already.
func NewFactory(opts Options, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{opts: opts, logger: logger}
}

// New starts a Chrome session, authenticates it, and leaves it parked on
// the reservation's collect form. On any failure the partially-created
// browser is quit before the error is returned, so a failed start never
// leaks a browser process.
//
// WebDriver calls cannot be interrupted, so cancellation is handled around
// them: a session that finishes starting after the context was cancelled is
// quit in the background.
func (f *Factory) New(ctx context.Context) (executor.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		sess *Session
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		sess, err := f.start()
		resultCh <- result{sess: sess, err: err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if res := <-resultCh; res.sess != nil {
				_ = res.sess.Close()
			}
		}()
		return nil, fmt.Errorf("session start cancelled: %w", ctx.Err())
	case res := <-resultCh:
		if res.err != nil {
			return nil, res.err
		}
		return res.sess, nil
	}
}

// start performs the full session setup sequence: launch, open the
// reservation page, log in, prepare the collect form.
func (f *Factory) start() (*Session, error) {
	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chrome.Capabilities{Args: chromeArgs(f.opts.Headless)})

	wd, err := selenium.NewRemote(caps, f.opts.WebDriverURL)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	sess := &Session{wd: wd, timeout: f.opts.Timeout}

	if err := sess.open(f.opts.TargetURL()); err != nil {
		_ = sess.Close()
		return nil, err
	}
	if err := sess.login(f.opts.Username, f.opts.Password); err != nil {
		_ = sess.Close()
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if err := sess.prepareScanForm(); err != nil {
		_ = sess.Close()
		return nil, fmt.Errorf("failed to prepare collect form: %w", err)
	}

	f.logger.Debug("browser session started",
		"url", f.opts.TargetURL(),
		"headless", f.opts.Headless)

	return sess, nil
}

// chromeArgs returns the Chrome launch flags. Headless runs add the
// sandbox and shared-memory flags needed inside containers.
func chromeArgs(headless bool) []string {
	var args []string
	if headless {
		args = append(args, "--headless", "--no-sandbox", "--disable-dev-shm-usage")
	}
	return append(args,
		"--disable-gpu",
		"--window-size=1920,1080",
		"--disable-notifications",
		"--disable-infobars",
	)
}
