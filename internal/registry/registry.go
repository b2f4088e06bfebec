package registry

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vhvplatform/react-framework-sub001/internal/errors"
	"github.com/vhvplatform/react-framework-sub001/internal/templates"
)

// Metadata summarizes one template for listings.
type Metadata struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Version     string    `json:"version"`
	Repository  string    `json:"repository,omitempty"`
	Routes      int       `json:"routes"`
	Components  int       `json:"components"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Registry is a directory of templates, one subdirectory per template.
type Registry struct {
	dir    string
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for skipped entries.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New returns a registry rooted at dir. The directory is created lazily by
// the first import.
func New(dir string, opts ...Option) *Registry {
	r := &Registry{dir: dir}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Dir returns the registry directory.
func (r *Registry) Dir() string {
	return r.dir
}

// Path returns the directory a template called name lives in.
func (r *Registry) Path(name string) string {
	return filepath.Join(r.dir, name)
}

// HasTemplate reports whether name has a config file in the registry.
func (r *Registry) HasTemplate(name string) bool {
	if templates.ValidateName(name) != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(r.Path(name), templates.ConfigFileName))
	return err == nil && !info.IsDir()
}

// ListTemplateMetadata returns metadata for every loadable template in
// directory order. Entries whose config is missing or corrupt, or that
// disappear while listing, are skipped. A missing registry directory yields
// an empty list.
func (r *Registry) ListTemplateMetadata() ([]Metadata, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, errors.New("E404").WithPath(r.dir).Wrap(err)
	}

	out := []Metadata{}
	for _, entry := range entries {
		// Dot directories are in-flight pulls.
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		tmpl, err := templates.Load(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			r.logger.Debug("skipping registry entry", "name", entry.Name(), "error", err)
			continue
		}
		out = append(out, metadataOf(entry.Name(), tmpl))
	}
	return out, nil
}

// metadataOf names the entry by its directory, which is how Get finds it.
func metadataOf(name string, t *templates.Template) Metadata {
	cfg := t.Config()
	return Metadata{
		Name:        name,
		Description: cfg.Description,
		Version:     cfg.Version,
		Repository:  cfg.Source.Repository,
		Routes:      len(cfg.Routes),
		Components:  len(cfg.Components.Required) + len(cfg.Components.Optional),
		CreatedAt:   cfg.CreatedAt,
		UpdatedAt:   cfg.UpdatedAt,
	}
}

// List returns the names of the loadable templates.
func (r *Registry) List() ([]string, error) {
	metas, err := r.ListTemplateMetadata()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(metas))
	for i, m := range metas {
		names[i] = m.Name
	}
	return names, nil
}

// Get loads the template called name.
func (r *Registry) Get(name string) (*templates.Template, error) {
	if err := templates.ValidateName(name); err != nil {
		return nil, err
	}
	tmpl, err := templates.Load(r.Path(name))
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.New("E103").
				WithDetail(name).
				WithSuggestion("Run 'vhv template list' to see available templates")
		}
		return nil, err
	}
	return tmpl, nil
}

// Remove deletes the template called name.
func (r *Registry) Remove(name string) error {
	tmpl, err := r.Get(name)
	if err != nil {
		return err
	}
	return tmpl.Destroy()
}
