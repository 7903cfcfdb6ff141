// Package version reports the fuzzdomain version from the Go build info.
package version

import (
	"runtime/debug"
	"strings"
)

const modulePath = "github.com/lex00/fuzzdomain-go"

// Info describes the running build.
type Info struct {
	// Version is the module version, or "dev" for local builds.
	Version string
	// Revision is the VCS revision the binary was built from, if recorded.
	Revision string
	// Modified reports uncommitted changes at build time.
	Modified bool
}

// String formats the info for --version output.
func (i Info) String() string {
	if i.Revision == "" {
		return i.Version
	}
	rev := i.Revision
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if i.Modified {
		rev += "-dirty"
	}
	return i.Version + " (" + rev + ")"
}

// Version returns the module version if available from build info.
// Returns "dev" if version information is not available (local development builds).
func Version() string {
	return Get().Version
}

// Get returns the info of the running build.
func Get() Info {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Info{Version: "dev"}
	}
	return fromBuildInfo(info)
}

func fromBuildInfo(info *debug.BuildInfo) Info {
	out := Info{Version: "dev"}
	switch {
	case info.Main.Path == modulePath && info.Main.Version != "" && info.Main.Version != "(devel)":
		out.Version = info.Main.Version
	default:
		// Used as a library
		for _, dep := range info.Deps {
			if dep.Path == modulePath {
				out.Version = dep.Version
			}
		}
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Revision = s.Value
		case "vcs.modified":
			out.Modified = strings.EqualFold(s.Value, "true")
		}
	}
	return out
}

// ModulePath returns the canonical module path.
func ModulePath() string {
	return modulePath
}
