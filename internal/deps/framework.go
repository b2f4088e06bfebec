package deps

import (
	_ "embed"
	"fmt"
)

//go:embed framework.json
var embeddedFramework []byte

// FrameworkManifest returns the embedded manifest of the host framework.
func FrameworkManifest() (*Manifest, error) {
	m, err := ParseManifest(embeddedFramework)
	if err != nil {
		return nil, fmt.Errorf("embedded framework manifest: %w", err)
	}
	return m, nil
}

// FrameworkDependencies returns the host framework's flattened dependency
// map. When manifestPath is non-empty it is read instead of the embedded
// manifest.
func FrameworkDependencies(manifestPath string) (map[string]string, error) {
	if manifestPath != "" {
		return ExtractDependencies(manifestPath)
	}
	m, err := FrameworkManifest()
	if err != nil {
		return nil, err
	}
	return m.Flatten(), nil
}
