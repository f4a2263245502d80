package fleet

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoYAML []byte

// DemoFilename names the embedded fixture in error messages.
const DemoFilename = "demo.yaml"

// Demo returns the built-in demo fixture. It panics if the embedded file
// is invalid, which would be a build defect.
func Demo() Snapshot {
	snap, err := Load(DemoFilename, demoYAML)
	if err != nil {
		panic(fmt.Sprintf("fleet: embedded demo fixture: %v", err))
	}
	return snap
}

// LoadFile reads and validates a fixture from disk.
func LoadFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read fixture: %w", err)
	}
	return Load(path, data)
}

// Load validates fixture YAML against the schema, decodes it, checks
// identity constraints and derives every computed field.
func Load(filename string, data []byte) (Snapshot, error) {
	if err := ValidateSchema(filename, data); err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("%s: decode fixture: %w", filename, err)
	}

	if err := checkIdentity(snap); err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", filename, err)
	}

	if err := Normalize(snap.Trains, snap.ReferenceDate); err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", filename, err)
	}
	return snap, nil
}

// checkIdentity rejects duplicate train or conflict IDs and conflicts that
// reference unknown trains.
func checkIdentity(snap Snapshot) error {
	trains := make(map[string]bool, len(snap.Trains))
	for _, t := range snap.Trains {
		if trains[t.ID] {
			return fmt.Errorf("duplicate train id %q", t.ID)
		}
		trains[t.ID] = true
	}

	conflicts := make(map[string]bool, len(snap.Conflicts))
	for _, c := range snap.Conflicts {
		if conflicts[c.ID] {
			return fmt.Errorf("duplicate conflict id %q", c.ID)
		}
		conflicts[c.ID] = true
		if !trains[c.TrainID] {
			return fmt.Errorf("conflict %s references unknown train %q", c.ID, c.TrainID)
		}
	}
	return nil
}
