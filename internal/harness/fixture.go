package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/caasets/internal/model"
)

// Fixture is a named import batch.
type Fixture struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Data        model.Batch `yaml:"data"`
}

// LoadFixture reads and parses a fixture YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or references entities it does not define.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return ParseFixture(bytes.NewReader(data))
}

// ParseFixture parses a fixture from r with the same rules as LoadFixture.
func ParseFixture(r io.Reader) (*Fixture, error) {
	var fixture Fixture
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&fixture); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateFixture(&fixture); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	return &fixture, nil
}

// validateFixture checks required fields and that every reference resolves
// within the batch.
func validateFixture(f *Fixture) error {
	if f.Name == "" {
		return fmt.Errorf("name is required")
	}
	return ValidateBatch(&f.Data)
}

// ValidateBatch checks that ids are unique per entity, data types are
// known and every foreign key points at an entity of the same batch.
func ValidateBatch(b *model.Batch) error {
	if b.Size() == 0 {
		return fmt.Errorf("data is required and must be non-empty")
	}

	systems := make(map[int64]bool)
	for i, cs := range b.CodingSystems {
		if err := unique(systems, cs.ID, "coding_systems", i); err != nil {
			return err
		}
		if cs.Name == "" {
			return fmt.Errorf("coding_systems[%d]: name is required", i)
		}
	}

	interviews := make(map[int64]bool)
	for i, iv := range b.Interviews {
		if err := unique(interviews, iv.ID, "interviews", i); err != nil {
			return err
		}
		if iv.Name == "" {
			return fmt.Errorf("interviews[%d]: name is required", i)
		}
		if !systems[iv.CodingSystemID] {
			return fmt.Errorf("interviews[%d]: unknown coding_system_id %d", i, iv.CodingSystemID)
		}
	}

	utterances := make(map[int64]bool)
	for i, u := range b.Utterances {
		if err := unique(utterances, u.ID, "utterances", i); err != nil {
			return err
		}
		if !interviews[u.InterviewID] {
			return fmt.Errorf("utterances[%d]: unknown interview_id %d", i, u.InterviewID)
		}
	}

	properties := make(map[int64]bool)
	for i, cp := range b.CodingProperties {
		if err := unique(properties, cp.ID, "coding_properties", i); err != nil {
			return err
		}
		if !systems[cp.CodingSystemID] {
			return fmt.Errorf("coding_properties[%d]: unknown coding_system_id %d", i, cp.CodingSystemID)
		}
		if !cp.DataType.Valid() {
			return fmt.Errorf("coding_properties[%d]: invalid data_type %q (want numeric or text)", i, cp.DataType)
		}
	}

	values := make(map[int64]bool)
	for i, pv := range b.PropertyValues {
		if err := unique(values, pv.ID, "property_values", i); err != nil {
			return err
		}
		if !properties[pv.PropertyID] {
			return fmt.Errorf("property_values[%d]: unknown property_id %d", i, pv.PropertyID)
		}
	}

	for i, uc := range b.UtteranceCodes {
		if !utterances[uc.UtteranceID] {
			return fmt.Errorf("utterance_codes[%d]: unknown utterance_id %d", i, uc.UtteranceID)
		}
		if !values[uc.PropertyValueID] {
			return fmt.Errorf("utterance_codes[%d]: unknown property_value_id %d", i, uc.PropertyValueID)
		}
	}

	globals := make(map[int64]bool)
	for i, gp := range b.GlobalProperties {
		if err := unique(globals, gp.ID, "global_properties", i); err != nil {
			return err
		}
		if !systems[gp.CodingSystemID] {
			return fmt.Errorf("global_properties[%d]: unknown coding_system_id %d", i, gp.CodingSystemID)
		}
	}

	globalValues := make(map[int64]bool)
	for i, gv := range b.GlobalValues {
		if err := unique(globalValues, gv.ID, "global_values", i); err != nil {
			return err
		}
		if !globals[gv.GlobalPropertyID] {
			return fmt.Errorf("global_values[%d]: unknown global_property_id %d", i, gv.GlobalPropertyID)
		}
	}

	for i, gr := range b.GlobalRatings {
		if !interviews[gr.InterviewID] {
			return fmt.Errorf("global_ratings[%d]: unknown interview_id %d", i, gr.InterviewID)
		}
		if !globalValues[gr.GlobalValueID] {
			return fmt.Errorf("global_ratings[%d]: unknown global_value_id %d", i, gr.GlobalValueID)
		}
	}

	return nil
}

func unique(seen map[int64]bool, id int64, kind string, index int) error {
	if id <= 0 {
		return fmt.Errorf("%s[%d]: id must be positive", kind, index)
	}
	if seen[id] {
		return fmt.Errorf("%s[%d]: duplicate id %d", kind, index, id)
	}
	seen[id] = true
	return nil
}
