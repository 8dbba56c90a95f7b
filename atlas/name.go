package atlas

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
)

const DefaultNameTemplate = `{{ .Prefix }}-characters-{{ .Index }}.png`

// NameValues are available to atlas file name template.
type NameValues struct {
	Prefix string
	Group  string
	Index  int
}

// OutputName expands template with the first index for which there is no
// file in dir yet.
func OutputName(field, dir string, values NameValues) (string, error) {
	if len(field) == 0 {
		field = DefaultNameTemplate
	}
	tmpl, err := template.New("atlas").Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse atlas name template: %w", err)
	}

	const maxIndex = 10000
	for values.Index = 0; values.Index < maxIndex; values.Index++ {
		buf := new(bytes.Buffer)
		if err := tmpl.Execute(buf, values); err != nil {
			return "", fmt.Errorf("unable to expand atlas name template: %w", err)
		}
		name := filepath.Join(dir, buf.String())
		if _, err := os.Stat(name); os.IsNotExist(err) {
			return name, nil
		}
	}
	return "", fmt.Errorf("unable to find free atlas name in '%s'", dir)
}
