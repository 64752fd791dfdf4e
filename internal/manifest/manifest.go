// Package manifest loads the optional stck.yaml project file, which can
// pre-seed the preprocessor's variable set and add include search roots
// before a program is preprocessed.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the manifest looked for next to a project's entry file.
const FileName = "stck.yaml"

// Manifest is the parsed stck.yaml. The zero value is a valid empty
// manifest.
type Manifest struct {
	PragmaDefines []string `yaml:"pragma_defines"`
	IncludeRoots  []string `yaml:"include_roots"`
}

// Load reads and parses the manifest at path. A missing file is not an
// error; a present but malformed file is.
func Load(path string) (Manifest, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Manifest{}, nil
	}
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	return Parse(raw, path)
}

// Parse decodes manifest contents. name is used in error messages only.
func Parse(raw []byte, name string) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return Manifest{}, fmt.Errorf("manifest %s: %w", name, err)
	}
	return m, nil
}
