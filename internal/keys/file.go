package keys

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ComboFileName is looked for in the working directory alongside the
// options file. The file is optional.
const ComboFileName = "combos.yaml"

type comboFile struct {
	Combos map[string][]Event `yaml:"combos"`
}

// LoadFile reads named combos from a YAML file. A missing file is not an
// error and yields an empty set. Combos that fail validation are
// rejected with an error naming the combo.
func LoadFile(path string) (map[string]Combo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Combo{}, nil
		}
		return nil, fmt.Errorf("failed to read combo file %s: %w", path, err)
	}

	var raw comboFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse combo file %s: %w", path, err)
	}

	combos := make(map[string]Combo, len(raw.Combos))
	for name, events := range raw.Combos {
		c := Combo{Name: name, Events: events}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("combo file %s: %w", path, err)
		}
		combos[name] = c
	}
	return combos, nil
}

// Resolve picks the combo with the given name, preferring file-defined
// combos over the built-in one. An empty name selects the built-in
// refresh combo.
func Resolve(name string, custom map[string]Combo) (Combo, error) {
	if name == "" || name == DefaultName {
		if c, ok := custom[DefaultName]; ok {
			return c, nil
		}
		return Refresh(), nil
	}
	if c, ok := custom[name]; ok {
		return c, nil
	}
	return Combo{}, fmt.Errorf("unknown combo %q", name)
}
