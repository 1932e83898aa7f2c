// Package version reports the build version of pcangw-cfg.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/pcangw/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/pcangw/internal/version.Commit=abc1234"
//
// Builds without ldflags fall back to the VCS stamp in the binary's build
// info, then to a "dev" version.
var (
	// Version is the semantic version of the application
	Version = ""
	// Commit is the short git commit hash, suffixed "-dirty" for modified trees
	Commit = ""
)

// Info is the resolved build information
type Info struct {
	Version  string
	Commit   string
	Modified bool
	Built    time.Time // VCS commit time, zero if unknown
}

var info Info

func init() {
	info = resolve(Version, Commit, readVCS())
	Version, Commit = info.Version, info.Commit
}

// vcsStamp is the subset of debug.BuildInfo settings used here
type vcsStamp struct {
	revision string
	modified bool
	time     time.Time
}

func readVCS() vcsStamp {
	var stamp vcsStamp

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return stamp
	}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			stamp.revision = setting.Value
		case "vcs.modified":
			stamp.modified = setting.Value == "true"
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
				stamp.time = t
			}
		}
	}
	return stamp
}

// resolve fills whatever ldflags left empty from the VCS stamp
func resolve(version, commit string, stamp vcsStamp) Info {
	i := Info{Version: version, Commit: commit, Modified: stamp.modified, Built: stamp.time}

	if i.Commit == "" && stamp.revision != "" {
		i.Commit = stamp.revision
		if len(i.Commit) > 7 {
			i.Commit = i.Commit[:7]
		}
		if stamp.modified {
			i.Commit += "-dirty"
		}
	}
	if i.Commit == "" {
		i.Commit = "unknown"
	}

	if i.Version == "" {
		if stamp.time.IsZero() {
			i.Version = "dev"
		} else {
			i.Version = "dev-" + stamp.time.Format("20060102")
		}
	}
	return i
}

// Get returns the resolved build information
func Get() Info {
	return info
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", info.Version, info.Commit)
}

// UserAgent is the User-Agent sent to gateways, so requests from this tool
// can be told apart in the gateway's access log
func UserAgent() string {
	return "pcangw-cfg/" + info.Version
}
