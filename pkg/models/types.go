package models

import (
	"encoding/json"
	"time"
)

// ParamSpec describes one configurable parameter of an operator, as
// declared in the operator's settings blob.
type ParamSpec struct {
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	Type        string      `json:"type" yaml:"type"`
	Value       interface{} `json:"value,omitempty" yaml:"value,omitempty"`
	DefaultVal  interface{} `json:"defaultVal,omitempty" yaml:"defaultVal,omitempty"`
	Required    bool        `json:"required,omitempty" yaml:"required,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Options     []Option    `json:"options,omitempty" yaml:"options,omitempty"`
	Min         *float64    `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64    `json:"max,omitempty" yaml:"max,omitempty"`
	Step        *float64    `json:"step,omitempty" yaml:"step,omitempty"`
	Properties  []ParamSpec `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Option is one selectable choice of a select/radio/checkbox parameter.
// The registry serializes options either as bare strings or as
// label/value pairs; both forms decode into the same shape.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

func (o *Option) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		o.Label = s
		o.Value = s
		return nil
	}
	type pair struct {
		Label string `json:"label"`
		Value string `json:"value"`
	}
	var p pair
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	o.Label = p.Label
	o.Value = p.Value
	return nil
}

// OperatorDefinition is one catalog entry as fetched from the registry.
// Settings carries the operator's parameter declarations as an encoded
// JSON document; it stays opaque until normalized by the catalog package.
//
// Facets holds the categorization fields the registry attaches at the top
// level of the operator document (one string field per category group,
// e.g. "modality": "image"). They are collected by UnmarshalJSON so the
// rest of the system never deals with unknown JSON fields.
type OperatorDefinition struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string   `json:"version,omitempty" yaml:"version,omitempty"`
	Inputs      string   `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs     string   `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Categories  []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	Settings    string   `json:"settings,omitempty" yaml:"settings,omitempty"`
	Starred     bool     `json:"isStar,omitempty" yaml:"starred,omitempty"`

	Facets map[string]string `json:"-" yaml:"facets,omitempty"`
}

var knownOperatorFields = map[string]bool{
	"id": true, "name": true, "description": true, "version": true,
	"inputs": true, "outputs": true, "categories": true,
	"settings": true, "isStar": true,
}

func (d *OperatorDefinition) UnmarshalJSON(data []byte) error {
	// Alias sidesteps this method while decoding the declared fields.
	type alias OperatorDefinition
	var known alias
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	*d = OperatorDefinition(known)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, val := range raw {
		if knownOperatorFields[key] {
			continue
		}
		var s string
		if err := json.Unmarshal(val, &s); err != nil {
			// Non-string extras (timestamps, counters) are not facets.
			continue
		}
		if d.Facets == nil {
			d.Facets = make(map[string]string)
		}
		d.Facets[key] = s
	}
	return nil
}

// NormalizedOperator is an OperatorDefinition with its settings blob
// decoded. Defaults holds each parameter's declared value; its key set is
// exactly the key set of Configs.
type NormalizedOperator struct {
	OperatorDefinition
	Configs  map[string]ParamSpec
	Defaults map[string]interface{}
}

// Category is one leaf of the category tree.
type Category struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	GroupType string `json:"groupType,omitempty" yaml:"groupType,omitempty"`
	Count     int    `json:"count,omitempty" yaml:"count,omitempty"`
}

// CategoryGroup is one level of the category tree. Name doubles as the
// group's semantic key: operators carry a facet named after it.
type CategoryGroup struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Categories []Category `json:"categories" yaml:"categories"`
}

// InstanceDescriptor is the persisted shape of one pipeline slot. Its
// Overrides field carries the full effective configuration (catalog
// defaults overlaid by user changes), not the sparse diff - that is the
// contract the execution backend expects.
type InstanceDescriptor struct {
	ID         string                 `json:"id" yaml:"id"`
	Overrides  map[string]interface{} `json:"overrides" yaml:"overrides"`
	Categories []string               `json:"categories" yaml:"categories"`
	Inputs     string                 `json:"inputs" yaml:"inputs"`
	Outputs    string                 `json:"outputs" yaml:"outputs"`
}

// Template is a named, persisted, complete pipeline.
type Template struct {
	ID          string               `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string               `json:"name" yaml:"name"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Instance    []InstanceDescriptor `json:"instance" yaml:"instance"`
	CreatedAt   time.Time            `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt   time.Time            `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// TemplatePayload is the create/update body for templates.
type TemplatePayload struct {
	Name        string               `json:"name" yaml:"name"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Instance    []InstanceDescriptor `json:"instance" yaml:"instance"`
}

// TaskMeta is the top-level metadata of a one-off cleaning task.
type TaskMeta struct {
	Name            string `json:"name" yaml:"name"`
	Description     string `json:"description,omitempty" yaml:"description,omitempty"`
	SrcDatasetID    string `json:"srcDatasetId" yaml:"srcDatasetId"`
	DestDatasetName string `json:"destDatasetName" yaml:"destDatasetName"`
	DestDatasetType string `json:"destDatasetType,omitempty" yaml:"destDatasetType,omitempty"`
}

// TaskPayload is the create body for tasks: task metadata plus the same
// ordered instance descriptors a template carries.
type TaskPayload struct {
	TaskMeta `yaml:",inline"`
	Instance []InstanceDescriptor `json:"instance" yaml:"instance"`
}
