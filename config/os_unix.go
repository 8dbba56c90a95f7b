//go:build !windows

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/term"
)

// CleanFileName removes not allowed characters form file name.
func CleanFileName(in string) string {
	out := strings.TrimLeft(strings.Map(func(sym rune) rune {
		if strings.ContainsRune(string(os.PathSeparator)+string(os.PathListSeparator), sym) {
			return -1
		}
		return sym
	}, in), ".")
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}

// DefaultFontDirs returns system directories where fonts are usually installed.
func DefaultFontDirs() []string {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		if runtime.GOOS == "darwin" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		} else {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"), filepath.Join(home, ".fonts"))
		}
	}
	if runtime.GOOS == "darwin" {
		return append(dirs, "/Library/Fonts", "/System/Library/Fonts")
	}
	return append(dirs, "/usr/local/share/fonts", "/usr/share/fonts")
}
