// Package model defines the encounter and insight data types.
package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrInvalidRecord = goerr.New("invalid encounter record")
	ErrInsightSchema = goerr.New("insight does not match schema")
)

// Encounter is one clinical note plus its optional derived analysis.
// JSON names match the array persisted by the browser front end.
type Encounter struct {
	ID         string    `json:"id"`
	SubjectRef string    `json:"patientId"`
	CreatedAt  time.Time `json:"timestamp"`
	Author     string    `json:"author"`
	Content    string    `json:"content" masq:"secret"`
	Insights   *Insight  `json:"insights,omitempty"`
}

// Insight is the structured analysis of a note's content.
type Insight struct {
	Summary        string         `json:"summary"`
	Risks          []Risk         `json:"risks"`
	StructuredData StructuredData `json:"structuredData"`
	Checklist      []string       `json:"checklist"`
}

// Risk is a flagged concern with a severity.
type Risk struct {
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// StructuredData holds entities extracted from a note.
type StructuredData struct {
	Medications []string `json:"medications"`
	Diagnoses   []string `json:"diagnoses"`
	Vitals      []Vital  `json:"vitals"`
}

// Vital is a named measurement, e.g. {"BP", "120/80"}.
type Vital struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ValidSeverities are the allowed risk severities.
var ValidSeverities = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
}

// Validate checks that the record can be stored.
func (e *Encounter) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return goerr.Wrap(ErrInvalidRecord, "id is required")
	}
	if e.Insights != nil {
		if err := e.Insights.Validate(); err != nil {
			return goerr.Wrap(err, "invalid insights", goerr.V("id", e.ID))
		}
	}
	return nil
}

// Validate checks summary and risk fields.
func (in *Insight) Validate() error {
	if strings.TrimSpace(in.Summary) == "" {
		return goerr.Wrap(ErrInsightSchema, "summary is empty")
	}
	for i, r := range in.Risks {
		if !ValidSeverities[r.Severity] {
			return goerr.Wrap(ErrInsightSchema, "unknown risk severity",
				goerr.V("index", i), goerr.V("severity", r.Severity))
		}
		if strings.TrimSpace(r.Description) == "" {
			return goerr.Wrap(ErrInsightSchema, "risk description is empty", goerr.V("index", i))
		}
	}
	for i, v := range in.StructuredData.Vitals {
		if strings.TrimSpace(v.Name) == "" {
			return goerr.Wrap(ErrInsightSchema, "vital name is empty", goerr.V("index", i))
		}
	}
	return nil
}

var requiredInsightKeys = []string{"summary", "risks", "structuredData", "checklist"}

// ParseInsight decodes and validates a model response. Unknown fields and
// missing top-level keys are rejected.
func ParseInsight(data []byte) (*Insight, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, goerr.Wrap(ErrInsightSchema, "response is not a JSON object",
			goerr.V("cause", err.Error()))
	}
	for _, k := range requiredInsightKeys {
		if _, ok := keys[k]; !ok {
			return nil, goerr.Wrap(ErrInsightSchema, "missing key", goerr.V("key", k))
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var in Insight
	if err := dec.Decode(&in); err != nil {
		return nil, goerr.Wrap(ErrInsightSchema, "decode insight", goerr.V("cause", err.Error()))
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &in, nil
}
