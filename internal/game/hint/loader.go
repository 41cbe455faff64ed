package hint

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/nancy/internal/game/flag"
)

// yamlTable is the YAML representation of a rule table.
type yamlTable struct {
	Title string     `yaml:"title"`
	Rules []yamlRule `yaml:"rules"`
}

type yamlRule struct {
	Character uint8           `yaml:"character"`
	Hint      uint16          `yaml:"hint"`
	Flags     []yamlFlag      `yaml:"flags"`
	Inventory []yamlInventory `yaml:"inventory"`
}

type yamlFlag struct {
	Label int16 `yaml:"label"`
	Value bool  `yaml:"value"`
}

type yamlInventory struct {
	Item int16 `yaml:"item"`
	Held bool  `yaml:"held"`
}

// LoadTableFromFile reads a rule table from a YAML file.
//
// Precondition: path must name a readable YAML file.
// Postcondition: Returns a validated Table or a non-nil error.
func LoadTableFromFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hint rules %q: %w", path, err)
	}
	t, err := LoadTableFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("hint rules %q: %w", path, err)
	}
	return t, nil
}

// LoadTableFromBytes parses a rule table from YAML. Unknown fields are
// rejected.
//
// Postcondition: Returns a validated Table or a non-nil error.
func LoadTableFromBytes(data []byte) (*Table, error) {
	var yt yamlTable
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&yt); err != nil {
		return nil, fmt.Errorf("parsing hint rules: %w", err)
	}
	t := convertYAMLTable(yt)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks table invariants.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (t *Table) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("hint table title must not be empty")
	}
	for i, r := range t.Rules {
		for _, c := range r.Inventory {
			if c.Label < 0 && c.Label != flag.NoLabel {
				return fmt.Errorf("hint table %q: rule %d: negative item id %d", t.Title, i, c.Label)
			}
		}
	}
	return nil
}

func convertYAMLTable(yt yamlTable) *Table {
	t := &Table{Title: yt.Title, Rules: make([]Rule, 0, len(yt.Rules))}
	for _, yr := range yt.Rules {
		r := Rule{CharacterID: yr.Character, HintID: yr.Hint}
		for _, f := range yr.Flags {
			r.Flags = append(r.Flags, Condition{Label: f.Label, Want: flag.FromBool(f.Value)})
		}
		for _, inv := range yr.Inventory {
			r.Inventory = append(r.Inventory, Condition{Label: inv.Item, Want: flag.FromBool(inv.Held)})
		}
		t.Rules = append(t.Rules, r)
	}
	return t
}
