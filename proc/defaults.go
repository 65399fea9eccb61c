package proc

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// SeparatorDefaults is the default-parameter table entry for
// SludgeSeparator. Split holds whatever shape the table specifies (a number
// or a mapping); ParseSplit resolves it against a component registry.
type SeparatorDefaults struct {
	Split       any     `yaml:"split"`
	SettledFrac float64 `yaml:"settled_frac"`
}

type defaultsFile struct {
	SludgeSeparator SeparatorDefaults `yaml:"sludge_separator"`
}

var loadDefaultsOnce = sync.OnceValues(func() (SeparatorDefaults, error) {
	var f defaultsFile
	dec := yaml.NewDecoder(bytes.NewReader(defaultsYAML))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return SeparatorDefaults{}, fmt.Errorf("parse embedded defaults: %w", err)
	}
	return f.SludgeSeparator, nil
})

// LoadSeparatorDefaults returns the embedded default-parameter table for the
// sludge separator. The table is parsed once.
func LoadSeparatorDefaults() (SeparatorDefaults, error) {
	return loadDefaultsOnce()
}
