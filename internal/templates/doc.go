// Package templates manages template directories produced by an import.
//
// A template is a directory holding template.config.json and a src
// directory with the adapted application source:
//
//	admin-dashboard/
//	├── template.config.json
//	└── src/
//
// # Usage
//
//	tmpl, err := templates.Create(dir, templates.Config{
//	    Name:    "admin-dashboard",
//	    Version: "1.0.0",
//	})
//	if err != nil {
//	    return err
//	}
//	desc := "Admin UI"
//	if err := tmpl.UpdateConfig(templates.ConfigUpdate{Description: &desc}); err != nil {
//	    return err
//	}
//	if err := tmpl.CopyTo(projectDir); err != nil {
//	    return err
//	}
//
// # Updates
//
// UpdateConfig is a shallow merge: a non-nil field replaces the whole
// top-level value. The config file is rewritten through a temporary file and
// a rename, so readers see either the old or the new file.
//
// Accessors return copies; changing a returned slice or map does not change
// the template.
package templates
