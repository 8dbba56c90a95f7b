// Package script brings timeline entries in from files: YAML scripts and
// plain prose split into board sized pages.
package script

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"splitflap/registry"
	"splitflap/timeline"
)

// Script is a list of entries for a single group.
type Script struct {
	Group   string                `yaml:"group"`
	Entries []timeline.EntryInput `yaml:"entries"`
}

// Load decodes script, unknown fields are errors.
func Load(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &s, nil
		}
		return nil, fmt.Errorf("unable to decode script: %w", err)
	}
	return &s, nil
}

// Write encodes script in the form Load accepts.
func (s *Script) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("unable to encode script: %w", err)
	}
	return enc.Close()
}

// Apply adds all entries to timeline. Either every entry is added or
// timeline is left as it was.
func Apply(reg *registry.Registry, tl *timeline.Timeline, entries []timeline.EntryInput, log *zap.Logger) ([]timeline.Entry, error) {
	saved := tl.Entries()
	added := make([]timeline.Entry, 0, len(entries))
	for i, in := range entries {
		e, err := tl.Add(reg, in)
		if err != nil {
			if rerr := tl.Restore(saved); rerr != nil {
				log.Error("Unable to restore timeline", zap.String("group", tl.GroupID()), zap.Error(rerr))
			}
			return nil, fmt.Errorf("script entry %d at %.2fs: %w", i+1, in.KeyTime, err)
		}
		added = append(added, e)
	}
	log.Debug("Script applied", zap.String("group", tl.GroupID()), zap.Int("entries", len(added)))
	return added, nil
}
