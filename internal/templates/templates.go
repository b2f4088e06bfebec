package templates

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/vhvplatform/react-framework-sub001/internal/errors"
)

// SourceDirName holds the template's application source.
const SourceDirName = "src"

// now is replaced in tests.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Template is a template directory and a cached copy of its config. The file
// on disk is authoritative; Reload re-reads it.
type Template struct {
	mu        sync.RWMutex
	dir       string
	cfg       Config
	destroyed bool
}

// Create makes dir (and dir/src), writes cfg to its config file and returns
// the template. Zero timestamps are stamped with the current time and an
// empty name defaults to the directory name.
func Create(dir string, cfg Config) (*Template, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.New("E401").WithPath(dir).Wrap(err)
	}
	if err := os.MkdirAll(filepath.Join(abs, SourceDirName), 0755); err != nil {
		return nil, errors.New("E401").WithPath(abs).Wrap(err)
	}

	cfg = cfg.Clone()
	if cfg.Name == "" {
		cfg.Name = filepath.Base(abs)
	}
	ts := now()
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = ts
	}
	if cfg.UpdatedAt.IsZero() {
		cfg.UpdatedAt = cfg.CreatedAt
	}

	if err := writeConfig(abs, cfg); err != nil {
		return nil, err
	}
	return &Template{dir: abs, cfg: cfg}, nil
}

// Load reads the template in dir.
func Load(dir string) (*Template, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.New("E404").WithPath(dir).Wrap(err)
	}
	cfg, err := readConfig(abs)
	if err != nil {
		return nil, err
	}
	return &Template{dir: abs, cfg: cfg}, nil
}

func readConfig(dir string) (Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.New("E102").WithPath(path)
		}
		return Config{}, errors.New("E404").WithPath(path).Wrap(err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, errors.New("E203").WithPath(path).WithDetail(err.Error())
	}
	return cfg, nil
}

// writeConfig replaces dir's config file atomically: the data goes to a
// temporary file in the same directory which is then renamed over the old
// file.
func writeConfig(dir string, cfg Config) error {
	path := filepath.Join(dir, ConfigFileName)
	data, err := cfg.Marshal()
	if err != nil {
		return errors.New("E402").WithPath(path).Wrap(err)
	}

	tmp, err := os.CreateTemp(dir, "."+ConfigFileName+".*")
	if err != nil {
		return errors.New("E402").WithPath(path).Wrap(err)
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return errors.New("E402").WithPath(path).Wrap(err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return errors.New("E402").WithPath(path).Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.New("E402").WithPath(path).Wrap(err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		cleanup()
		return errors.New("E402").WithPath(path).Wrap(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return errors.New("E402").WithPath(path).Wrap(err)
	}
	return nil
}

func (t *Template) gone() error {
	return errors.New("E103").
		WithPath(t.dir).
		WithDetail("template was destroyed")
}

// UpdateConfig applies u and rewrites the config file. Only the fields set
// in u change, with one exception: UpdatedAt is always advanced, strictly
// past its previous value. If the write fails the cached config is left as
// it was.
func (t *Template) UpdateConfig(u ConfigUpdate) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return t.gone()
	}

	next := t.cfg.apply(u)
	next.UpdatedAt = now()
	if !next.UpdatedAt.After(t.cfg.UpdatedAt) {
		next.UpdatedAt = t.cfg.UpdatedAt.Add(time.Second)
	}
	if err := writeConfig(t.dir, next); err != nil {
		return err
	}
	t.cfg = next
	return nil
}

// Reload re-reads the config file, discarding the cached copy.
func (t *Template) Reload() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return t.gone()
	}
	cfg, err := readConfig(t.dir)
	if err != nil {
		return err
	}
	t.cfg = cfg
	return nil
}

// CopyTo copies the template directory into dst, skipping build output and
// dependency folders. A failed copy may leave dst partially written.
func (t *Template) CopyTo(dst string) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.destroyed {
		return t.gone()
	}
	return copyTree(t.dir, dst)
}

// CopySource copies an application's source directory into the template's
// src directory with the same exclusions as CopyTo.
func (t *Template) CopySource(src string) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.destroyed {
		return t.gone()
	}
	return copyTree(src, filepath.Join(t.dir, SourceDirName))
}

// Destroy removes the template directory. The Template cannot be used
// afterwards.
func (t *Template) Destroy() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return t.gone()
	}
	if err := os.RemoveAll(t.dir); err != nil {
		return errors.New("E405").WithPath(t.dir).Wrap(err)
	}
	t.destroyed = true
	return nil
}

// Destroyed reports whether Destroy has succeeded.
func (t *Template) Destroyed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.destroyed
}

// Dir returns the absolute template directory.
func (t *Template) Dir() string {
	return t.dir
}

// Config returns a copy of the cached config.
func (t *Template) Config() Config {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cfg.Clone()
}

// Name returns the template name.
func (t *Template) Name() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cfg.Name
}

// Description returns the template description.
func (t *Template) Description() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cfg.Description
}

// Version returns the template version.
func (t *Template) Version() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cfg.Version
}

// Source returns where the template was imported from.
func (t *Template) Source() Source {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cfg.Source
}

// Routes returns a copy of the portable routes.
func (t *Template) Routes() []Route {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.cfg.Routes)
}

// Dependencies returns a copy of the merged dependency map.
func (t *Template) Dependencies() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maps.Clone(t.cfg.Dependencies)
}

// Components returns a copy of the required and optional component lists.
func (t *Template) Components() Components {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Components{
		Required: slices.Clone(t.cfg.Components.Required),
		Optional: slices.Clone(t.cfg.Components.Optional),
	}
}

// Modules returns a copy of the module list.
func (t *Template) Modules() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.cfg.Modules)
}

// Customization returns the customization flags.
func (t *Template) Customization() Customization {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cfg.Customization
}

// CreatedAt returns when the template was created.
func (t *Template) CreatedAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cfg.CreatedAt
}

// UpdatedAt returns when the config was last written. It only moves forward.
func (t *Template) UpdatedAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cfg.UpdatedAt
}
