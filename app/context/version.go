package context

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// VersionInfo is the build information of the application.
type VersionInfo struct {
	Semantic string
	Commit   string
	Dirty    bool
	Go       string
}

// String returns the version in a human readable format.
func (v *VersionInfo) String() string {
	s := v.Semantic
	if v.Commit != "" {
		commit := v.Commit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		s = fmt.Sprintf("%s (%s", s, commit)
		if v.Dirty {
			s += "-dirty"
		}
		s += ")"
	}

	return fmt.Sprintf("%s, built with %s", s, v.Go)
}

// GetVersion returns the version information embedded in the binary.
func GetVersion() (*VersionInfo, error) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, errors.New("failed reading build information")
	}

	vi := &VersionInfo{Semantic: info.Main.Version, Go: info.GoVersion}
	if vi.Semantic == "" {
		vi.Semantic = "(devel)"
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			vi.Commit = s.Value
		case "vcs.modified":
			vi.Dirty = s.Value == "true"
		}
	}

	return vi, nil
}
