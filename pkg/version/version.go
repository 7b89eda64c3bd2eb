// Package version records build metadata injected at link time.
package version

import (
	"encoding/json"
	"fmt"
	"runtime"
)

// Set by the release build via -ldflags, e.g.
//
//	go build -ldflags "-X github.com/roh-tools/trailbulk/pkg/version.Version=v1.2.0"
//
// A plain `go build` leaves the defaults in place.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info describes one build of trailbulk.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the version information for the running binary.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns a single-line version summary.
func (i Info) String() string {
	return fmt.Sprintf("trailbulk %s (commit %s, built %s, %s, %s)",
		i.Version, i.Commit, i.BuildTime, i.GoVersion, i.Platform)
}

// JSON renders the version info as indented JSON.
func (i Info) JSON() ([]byte, error) {
	return json.MarshalIndent(i, "", "  ")
}
