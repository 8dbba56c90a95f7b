package script

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// ReadText reads text in any encoding: contentType (which may be empty) is
// consulted first, then the content itself.
func ReadText(r io.Reader, contentType string) (string, error) {
	cr, err := charset.NewReader(r, contentType)
	if err != nil {
		return "", fmt.Errorf("unable to detect text encoding: %w", err)
	}
	data, err := io.ReadAll(cr)
	if err != nil {
		return "", fmt.Errorf("unable to read text: %w", err)
	}
	return strings.TrimPrefix(string(data), "\uFEFF"), nil
}
