// Package misc keeps build-time information about the program.
package misc

import (
	"runtime/debug"
)

// These are set by the linker, see Taskfile.yml.
var (
	appName = "splitflap"
	version = "dev"
	gitHash = ""
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns revision program was built from. When linker did not
// provide one it falls back to VCS information embedded by the go tool.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
