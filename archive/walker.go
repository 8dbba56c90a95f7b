// Package archive reads project bundles built on top of "archive/zip".
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"
)

// MaxEntrySize limits uncompressed size of a single archive entry Read
// agrees to load into memory.
const MaxEntrySize = 64 << 20

// WalkFunc is called for each file in archive visited by Walk. The archive
// argument is path passed to Walk, file satisfies match condition. If an
// error is returned, processing stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk walks all files in the archive with names starting with prefix.
// Archives with absolute entry paths or path traversal components ("..")
// are rejected as a whole.
func Walk(archive, prefix string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, prefix) {
			if err := walkFn(archive, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Read returns content of archive entry refusing entries larger than
// MaxEntrySize.
func Read(file *zip.File) ([]byte, error) {
	if file.UncompressedSize64 > MaxEntrySize {
		return nil, fmt.Errorf("zip entry %q is too large (%d bytes)", file.Name, file.UncompressedSize64)
	}
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("unable to open zip entry %q: %w", file.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("unable to read zip entry %q: %w", file.Name, err)
	}
	if len(data) > MaxEntrySize {
		return nil, fmt.Errorf("zip entry %q is too large", file.Name)
	}
	return data, nil
}

func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
