package timeline

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/scrolly/internal/config"
)

// ErrInvalidScenario wraps schema violations.
var ErrInvalidScenario = errors.New("invalid scenario")

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "scenario.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return c.Compile(schemaURL)
})

// WriteScenario writes a scenario to a YAML file
func WriteScenario(scenario *Scenario, path string) error {
	data, err := yaml.Marshal(scenario)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadScenario reads and validates a scenario from a YAML file
func ReadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

// ParseScenario validates a YAML document against the scenario schema and decodes it.
// Config values missing from the document keep their defaults.
func ParseScenario(data []byte) (*Scenario, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	scenario := Scenario{Config: config.Default()}
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Config.Validate(); err != nil {
		return nil, err
	}

	sort.SliceStable(scenario.Scroll, func(i, j int) bool {
		return scenario.Scroll[i].Time < scenario.Scroll[j].Time
	})

	return &scenario, nil
}

// Validate checks a YAML document against the embedded JSON schema.
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse scenario: %w", err)
	}

	// round-trip through JSON so the validator sees plain JSON values
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert scenario: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("convert scenario: %w", err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	return nil
}
