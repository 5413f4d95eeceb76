package model

// Batch is a set of entities written to a store in one transaction.
// Slices are inserted in dependency order, so a batch may reference
// entities it creates itself.
type Batch struct {
	CodingSystems    []CodingSystem   `yaml:"coding_systems,omitempty"`
	Interviews       []Interview      `yaml:"interviews,omitempty"`
	Utterances       []Utterance      `yaml:"utterances,omitempty"`
	CodingProperties []CodingProperty `yaml:"coding_properties,omitempty"`
	PropertyValues   []PropertyValue  `yaml:"property_values,omitempty"`
	UtteranceCodes   []UtteranceCode  `yaml:"utterance_codes,omitempty"`
	GlobalProperties []GlobalProperty `yaml:"global_properties,omitempty"`
	GlobalValues     []GlobalValue    `yaml:"global_values,omitempty"`
	GlobalRatings    []GlobalRating   `yaml:"global_ratings,omitempty"`
}

// Size returns the total number of entities in the batch.
func (b *Batch) Size() int {
	return len(b.CodingSystems) + len(b.Interviews) + len(b.Utterances) +
		len(b.CodingProperties) + len(b.PropertyValues) + len(b.UtteranceCodes) +
		len(b.GlobalProperties) + len(b.GlobalValues) + len(b.GlobalRatings)
}
