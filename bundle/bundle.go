// Package bundle moves a single flap group between projects and to
// animation host as one zip file.
package bundle

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	fixzip "github.com/hidez8891/zip"
	"gopkg.in/yaml.v3"

	"splitflap/archive"
	"splitflap/registry"
	"splitflap/schedule"
	"splitflap/timeline"
)

const (
	GroupFile    = "group.yaml"
	TimelineFile = "timeline.yaml"
	PlanFile     = "plan.yaml"
	AtlasFile    = "atlas.png"
)

var ErrIncomplete = errors.New("incomplete bundle")

// GroupInfo is group description stored in bundle.
type GroupInfo struct {
	ID                string    `yaml:"id"`
	Prefix            string    `yaml:"prefix"`
	Created           time.Time `yaml:"created"`
	Current           string    `yaml:"current"`
	registry.Metadata `yaml:",inline"`
}

// Bundle is everything needed to replay animation of a group. Plan and Atlas
// are optional.
type Bundle struct {
	Group   GroupInfo
	Entries []timeline.Entry
	Plan    *schedule.Plan
	Atlas   []byte
}

func New(g *registry.Group, tl *timeline.Timeline, plan *schedule.Plan, atlasPNG []byte) *Bundle {
	return &Bundle{
		Group: GroupInfo{
			ID:       g.ID,
			Prefix:   g.Prefix,
			Created:  g.Created,
			Current:  g.Current,
			Metadata: g.Metadata(),
		},
		Entries: tl.Entries(),
		Plan:    plan,
		Atlas:   atlasPNG,
	}
}

// Export writes bundle to file. Archive is first built in a temporary file
// and then copied without data descriptors, some importers on the host side
// can not read streamed entries.
func (b *Bundle) Export(to string) error {
	tmp, err := os.CreateTemp(filepath.Dir(to), ".bundle-*.zip")
	if err != nil {
		return fmt.Errorf("unable to create temporary bundle: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := b.write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to close temporary bundle: %w", err)
	}
	return copyZipWithoutDataDescriptors(tmp.Name(), to)
}

func (b *Bundle) write(w io.Writer) error {
	zw := fixzip.NewWriter(w)

	add := func(name string, data []byte) error {
		fw, err := zw.CreateHeader(&fixzip.FileHeader{Name: name, Method: fixzip.Deflate, Modified: time.Now()})
		if err != nil {
			return fmt.Errorf("unable to add %s to bundle: %w", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("unable to write %s to bundle: %w", name, err)
		}
		return nil
	}
	marshal := func(name string, v any) error {
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("unable to encode %s: %w", name, err)
		}
		return add(name, data)
	}

	if err := marshal(GroupFile, b.Group); err != nil {
		return err
	}
	if err := marshal(TimelineFile, b.Entries); err != nil {
		return err
	}
	if b.Plan != nil {
		if err := marshal(PlanFile, b.Plan); err != nil {
			return err
		}
	}
	if len(b.Atlas) > 0 {
		if err := add(AtlasFile, b.Atlas); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("unable to finish bundle: %w", err)
	}
	return nil
}

func copyZipWithoutDataDescriptors(from, to string) error {
	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		// copy zip entry
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("unable to finish target file (%s): %w", to, err)
	}
	return out.Close()
}

// Import reads bundle written by Export.
func Import(from string) (*Bundle, error) {
	var (
		b                 Bundle
		hasGroup, hasList bool
	)
	err := archive.Walk(from, "", func(_ string, file *zip.File) error {
		var (
			data []byte
			err  error
		)
		switch file.Name {
		case GroupFile, TimelineFile, PlanFile, AtlasFile:
			if data, err = archive.Read(file); err != nil {
				return err
			}
		default:
			return nil
		}

		switch file.Name {
		case GroupFile:
			hasGroup = true
			err = decode(data, &b.Group)
		case TimelineFile:
			hasList = true
			err = decode(data, &b.Entries)
		case PlanFile:
			b.Plan = &schedule.Plan{}
			err = decode(data, b.Plan)
		case AtlasFile:
			b.Atlas = data
		}
		if err != nil {
			return fmt.Errorf("%s: %w", file.Name, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to read bundle '%s': %w", from, err)
	}
	if !hasGroup || !hasList {
		return nil, fmt.Errorf("%w: '%s' must have %s and %s", ErrIncomplete, from, GroupFile, TimelineFile)
	}
	return &b, nil
}

func decode(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Install registers bundled group and builds its timeline. Group keeps its
// identifier when it is free, otherwise a new one is allocated for the same
// prefix. Entries are validated against the group before anything is
// registered.
func (b *Bundle) Install(reg *registry.Registry, options ...timeline.Option) (*registry.Group, *timeline.Timeline, error) {
	g, err := registry.NewGroup(b.Group.ID, b.Group.Metadata)
	if err != nil {
		return nil, nil, err
	}
	g.Prefix, g.Created = b.Group.Prefix, b.Group.Created
	if err := g.SetCurrent(b.Group.Current); err != nil {
		g.Current = g.Initial()
	}

	if _, err := reg.Get(g.ID); err == nil {
		fresh, err := reg.Create(g.Prefix, b.Group.Metadata)
		if err != nil {
			return nil, nil, err
		}
		// Create registered the group already
		if err := reg.Remove(fresh.ID); err != nil {
			return nil, nil, err
		}
		g.ID = fresh.ID
	}

	entries := make([]timeline.Entry, len(b.Entries))
	for i, e := range b.Entries {
		e.GroupID = g.ID
		entries[i] = e
	}
	tl := timeline.New(g.ID, options...)
	if err := tl.Restore(entries); err != nil {
		return nil, nil, err
	}

	scratch := registry.New()
	if err := scratch.Register(g); err != nil {
		return nil, nil, err
	}
	violations, err := tl.Validate(scratch)
	if err != nil {
		return nil, nil, err
	}
	if len(violations) > 0 {
		return nil, nil, fmt.Errorf("%w: bundled timeline has %d infeasible transitions, first %s", timeline.ErrInfeasibleTiming, len(violations), violations[0])
	}

	if err := reg.Register(g); err != nil {
		return nil, nil, err
	}
	return g, tl, nil
}
