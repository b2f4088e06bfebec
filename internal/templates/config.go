package templates

import (
	"encoding/json"
	"maps"
	"slices"
	"time"
)

// ConfigFileName is the template's config file, relative to its directory.
const ConfigFileName = "template.config.json"

// Config is the persisted description of a template. Field order is the
// on-disk key order.
type Config struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Version       string            `json:"version"`
	Source        Source            `json:"source"`
	Components    Components        `json:"components"`
	Routes        []Route           `json:"routes"`
	Dependencies  map[string]string `json:"dependencies"`
	Modules       []string          `json:"modules"`
	Customization Customization     `json:"customization"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// Source records where the template was imported from.
type Source struct {
	Repository string `json:"repository"`
	Branch     string `json:"branch"`
}

// Components splits the template's component files by whether its routes
// need them.
type Components struct {
	Required []string `json:"required"`
	Optional []string `json:"optional"`
}

// Route is a route the template ships.
type Route struct {
	Path      string `json:"path"`
	Component string `json:"component"`
	Protected bool   `json:"protected"`
	Layout    string `json:"layout"`
}

// Customization flags the aspects of a template a project may override.
type Customization struct {
	Theme  bool `json:"theme"`
	Layout bool `json:"layout"`
	Auth   bool `json:"auth"`
}

// ConfigUpdate is a shallow update: each non-nil field replaces the whole
// corresponding top-level field of the config. Nested values are never
// merged, so updating one route means passing the full route list.
type ConfigUpdate struct {
	Name          *string
	Description   *string
	Version       *string
	Source        *Source
	Components    *Components
	Routes        *[]Route
	Dependencies  *map[string]string
	Modules       *[]string
	Customization *Customization
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := c
	out.Components.Required = slices.Clone(c.Components.Required)
	out.Components.Optional = slices.Clone(c.Components.Optional)
	out.Routes = slices.Clone(c.Routes)
	out.Dependencies = maps.Clone(c.Dependencies)
	out.Modules = slices.Clone(c.Modules)
	return out.normalized()
}

// normalized replaces nil collections with empty ones so they encode as []
// and {} rather than null.
func (c Config) normalized() Config {
	if c.Components.Required == nil {
		c.Components.Required = []string{}
	}
	if c.Components.Optional == nil {
		c.Components.Optional = []string{}
	}
	if c.Routes == nil {
		c.Routes = []Route{}
	}
	if c.Dependencies == nil {
		c.Dependencies = map[string]string{}
	}
	if c.Modules == nil {
		c.Modules = []string{}
	}
	return c
}

// apply merges u into c.
func (c Config) apply(u ConfigUpdate) Config {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.Version != nil {
		c.Version = *u.Version
	}
	if u.Source != nil {
		c.Source = *u.Source
	}
	if u.Components != nil {
		c.Components = Components{
			Required: slices.Clone(u.Components.Required),
			Optional: slices.Clone(u.Components.Optional),
		}
	}
	if u.Routes != nil {
		c.Routes = slices.Clone(*u.Routes)
	}
	if u.Dependencies != nil {
		c.Dependencies = maps.Clone(*u.Dependencies)
	}
	if u.Modules != nil {
		c.Modules = slices.Clone(*u.Modules)
	}
	if u.Customization != nil {
		c.Customization = *u.Customization
	}
	return c.normalized()
}

// Marshal encodes c as indented JSON with a trailing newline.
func (c Config) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(c.normalized(), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ParseConfig decodes a template.config.json document.
func ParseConfig(data []byte) (Config, error) {
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}
	return c.normalized(), nil
}
