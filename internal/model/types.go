package model

import "fmt"

// DataType is the declared value type of a CodingProperty.
type DataType string

const (
	// DataTypeNumeric columns are projected as floating point.
	DataTypeNumeric DataType = "numeric"

	// DataTypeText columns are projected verbatim.
	DataTypeText DataType = "text"
)

// Valid reports whether d is one of the declared data types.
func (d DataType) Valid() bool {
	return d == DataTypeNumeric || d == DataTypeText
}

// ParseDataType converts a stored cp_data_type string to a DataType.
func ParseDataType(s string) (DataType, error) {
	d := DataType(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown data type %q (want %q or %q)", s, DataTypeNumeric, DataTypeText)
	}
	return d, nil
}

// CodingSystem groups the properties and global properties used to code
// an interview.
type CodingSystem struct {
	ID   int64  `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Interview identifies one coding session.
//
// ClientID keeps its stored (text) representation; projections may cast it
// to an integer.
type Interview struct {
	ID             int64  `yaml:"id" json:"id"`
	Name           string `yaml:"name" json:"name"`
	ClientID       string `yaml:"client_id" json:"client_id"`
	RaterID        string `yaml:"rater_id" json:"rater_id"`
	SessionNumber  int64  `yaml:"session_number" json:"session_number"`
	CodingSystemID int64  `yaml:"coding_system_id" json:"coding_system_id"`
}

// Utterance is one unit of speech within an interview.
type Utterance struct {
	ID          int64  `yaml:"id" json:"id"`
	InterviewID int64  `yaml:"interview_id" json:"interview_id"`
	Enum        int64  `yaml:"enum" json:"enum"`
	Line        int64  `yaml:"line" json:"line"`
	Role        string `yaml:"role" json:"role"`
	Text        string `yaml:"text" json:"text"`
	StartTime   string `yaml:"start_time,omitempty" json:"start_time,omitempty"`
	EndTime     string `yaml:"end_time,omitempty" json:"end_time,omitempty"`
}

// CodingProperty is an utterance-level coding dimension.
type CodingProperty struct {
	ID             int64    `yaml:"id" json:"id"`
	CodingSystemID int64    `yaml:"coding_system_id" json:"coding_system_id"`
	Name           string   `yaml:"name" json:"name"`
	DisplayName    string   `yaml:"display_name" json:"display_name"`
	Description    string   `yaml:"description,omitempty" json:"description,omitempty"`
	DataType       DataType `yaml:"data_type" json:"data_type"`
}

// PropertyValue is one legal value of a CodingProperty.
type PropertyValue struct {
	ID          int64  `yaml:"id" json:"id"`
	PropertyID  int64  `yaml:"property_id" json:"property_id"`
	Value       string `yaml:"value" json:"value"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// UtteranceCode assigns a PropertyValue to an Utterance.
type UtteranceCode struct {
	UtteranceID     int64 `yaml:"utterance_id" json:"utterance_id"`
	PropertyValueID int64 `yaml:"property_value_id" json:"property_value_id"`
}

// GlobalProperty is a session-level coding dimension.
type GlobalProperty struct {
	ID             int64  `yaml:"id" json:"id"`
	CodingSystemID int64  `yaml:"coding_system_id" json:"coding_system_id"`
	Name           string `yaml:"name" json:"name"`
	Description    string `yaml:"description,omitempty" json:"description,omitempty"`
}

// GlobalValue is one legal value of a GlobalProperty.
type GlobalValue struct {
	ID               int64  `yaml:"id" json:"id"`
	GlobalPropertyID int64  `yaml:"global_property_id" json:"global_property_id"`
	Value            string `yaml:"value" json:"value"`
}

// GlobalRating assigns a GlobalValue to an Interview.
type GlobalRating struct {
	InterviewID   int64 `yaml:"interview_id" json:"interview_id"`
	GlobalValueID int64 `yaml:"global_value_id" json:"global_value_id"`
}
