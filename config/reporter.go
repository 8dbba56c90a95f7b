package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	fixzip "github.com/hidez8891/zip"
	yaml "gopkg.in/yaml.v3"

	"splitflap/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty report. When destination could not be created report
// goes to temporary directory.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{file: f, items: make(map[string]item)}, nil
}

// item is either in-memory data or a file which is read when report is
// closed.
type item struct {
	source string
	data   []byte
	stamp  time.Time
}

func (it item) size() int64 {
	if it.source == "" {
		return int64(len(it.data))
	}
	if fi, err := os.Stat(it.source); err == nil {
		return fi.Size()
	}
	return -1
}

// Report collects debug material of a single run: configuration, logs, plan
// dumps, group state and a consistent copy of the project. All of it is
// packed into one zip archive on Close. All methods could be called on nil
// report, which means no report was requested.
// NOTE: not safe for concurrent use.
type Report struct {
	file  *os.File
	work  string // snapshots, created on first use
	items map[string]item
}

// Name returns absolute name of the archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

func (r *Report) add(name string, it item) {
	if old, exists := r.items[name]; exists && (old.source == "" || old.source != it.source) {
		panic(fmt.Sprintf("report item [%s] is stored twice", name))
	}
	r.items[name] = it
}

// Store references file which keeps changing (logs), it is read on Close.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if p, err := filepath.Abs(path); err == nil {
		path = p
	}
	r.add(name, item{source: path})
}

// StoreData puts data into report under requested name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	r.add(name, item{data: data, stamp: time.Now()})
}

// StoreYAML puts serialized v into report under requested name.
func (r *Report) StoreYAML(name string, v any) error {
	if r == nil {
		return nil
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("unable to serialize %s for report: %w", name, err)
	}
	r.StoreData(name, data)
	return nil
}

// Snapshot lets write produce file inside report working directory and puts
// it into report under requested name. Content is fixed at the time of the
// call.
func (r *Report) Snapshot(name string, write func(path string) error) error {
	if r == nil {
		return nil
	}
	if r.work == "" {
		dir, err := os.MkdirTemp("", misc.GetAppName()+"-r-")
		if err != nil {
			return fmt.Errorf("unable to create report working directory: %w", err)
		}
		r.work = dir
	}
	path := filepath.Join(r.work, fmt.Sprintf("%d-%s", len(r.items), filepath.Base(name)))
	if err := write(path); err != nil {
		return fmt.Errorf("unable to snapshot %s for report: %w", name, err)
	}
	r.add(name, item{source: path, stamp: time.Now()})
	return nil
}

// StoreCopy puts copy of the file as it is now into report.
func (r *Report) StoreCopy(name, path string) error {
	return r.Snapshot(name, func(dst string) error {
		return copyFile(dst, path)
	})
}

func copyFile(dst, src string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}

// Close writes archive and removes snapshots.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	defer func() {
		if r.work != "" {
			os.RemoveAll(r.work)
		}
	}()
	defer r.file.Close()

	w := fixzip.NewWriter(r.file)
	if err := r.write(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (r *Report) write(w *fixzip.Writer) error {
	now := time.Now()
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	slices.Sort(names)

	manifest := new(bytes.Buffer)
	for _, name := range names {
		it := r.items[name]
		stamp := it.stamp
		if stamp.IsZero() {
			stamp = now
		}
		fmt.Fprintf(manifest, "%s\t%s\t%d\t%s\n", stamp.UTC().Format(time.RFC3339), name, it.size(), it.source)
	}
	if err := addFile(w, "MANIFEST", now, manifest); err != nil {
		return err
	}

	for _, name := range names {
		it := r.items[name]
		if it.source == "" {
			if err := addFile(w, name, it.stamp, bytes.NewReader(it.data)); err != nil {
				return err
			}
			continue
		}
		fi, err := os.Stat(it.source)
		if err != nil || !fi.Mode().IsRegular() {
			// log files may never be created
			continue
		}
		f, err := os.Open(it.source)
		if err != nil {
			return err
		}
		err = addFile(w, name, fi.ModTime(), f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func addFile(w *fixzip.Writer, name string, t time.Time, src io.Reader) error {
	fw, err := w.CreateHeader(&fixzip.FileHeader{Name: name, Method: fixzip.Deflate, Modified: t})
	if err != nil {
		return fmt.Errorf("unable to add %s to report: %w", name, err)
	}
	if _, err := io.Copy(fw, src); err != nil {
		return fmt.Errorf("unable to add %s to report: %w", name, err)
	}
	return nil
}
