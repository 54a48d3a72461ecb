// Package version reports the build's version for -version and the LSP
// serverInfo.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via -ldflags "-X ...".
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info describes a build.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildTime string `json:"buildTime,omitempty"`
	Dirty     bool   `json:"dirty,omitempty"`
}

// Get returns the build description. Values set with ldflags win; the
// module version and VCS stamps from the Go build info fill the rest.
func Get() Info {
	info := Info{Version: Version, Commit: GitCommit, BuildTime: BuildTime}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}

// String renders e.g. "v1.2.0 (commit 0123abc, dirty)".
func (i Info) String() string {
	s := i.Version
	if i.Dirty {
		s += "-dirty"
	}
	if i.Commit != "" {
		commit := i.Commit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		s = fmt.Sprintf("%s (commit %s)", s, commit)
	}
	return s
}
