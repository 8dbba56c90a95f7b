package atlas

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/h2non/filetype"
	"golang.org/x/image/font/gofont/goregular"
)

var ErrFontNotFound = errors.New("font not found")

// LoadFont parses TrueType font file. Empty path selects built-in Go Regular
// font.
func LoadFont(path string) (*truetype.Font, error) {
	if len(path) == 0 {
		return truetype.Parse(goregular.TTF)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read font: %w", err)
	}
	if !filetype.Is(data, "ttf") && !filetype.Is(data, "otf") {
		return nil, fmt.Errorf("'%s' does not look like a TrueType or OpenType font", path)
	}
	fnt, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse font '%s': %w", path, err)
	}
	return fnt, nil
}

// FindFont looks for font file by name in directories (recursively). Name
// without extension gets ".ttf" appended, comparison ignores case. Name which
// points to existing file is returned as is.
func FindFont(name string, dirs []string) (string, error) {
	if len(name) == 0 {
		return "", nil
	}
	if strings.ContainsRune(name, os.PathSeparator) || strings.ContainsRune(name, '/') {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("%w: %w", ErrFontNotFound, err)
		}
		return name, nil
	}
	if len(filepath.Ext(name)) == 0 {
		name += ".ttf"
	}

	var found string
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// unreadable directories are not fatal
				return fs.SkipDir
			}
			if !d.IsDir() && strings.EqualFold(d.Name(), name) {
				found = path
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			return "", err
		}
		if len(found) > 0 {
			return found, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrFontNotFound, name)
}
