package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Source types a pipeline step can feed into its user message.
const (
	SourceProjectResources = "project_resources"
	SourceStepOutput       = "step_output"
	SourceAllStepOutputs   = "all_step_outputs"
)

// StepSource specifies one input to a step's generation call. Step is only
// set for step_output sources and names a prior step by index.
type StepSource struct {
	Type string `json:"type"`
	Step *int   `json:"step,omitempty"`
}

// PipelineStep is one unit of a pipeline. Prompts are referenced by unique
// name or carried inline; the inline body wins when both are present.
type PipelineStep struct {
	Name                   string       `json:"name"`
	GenerationPrompt       string       `json:"generationPrompt,omitempty"`
	GenerationPromptInline string       `json:"generationPromptInline,omitempty"`
	SystemPrompt           string       `json:"systemPrompt,omitempty"`
	SystemPromptInline     string       `json:"systemPromptInline,omitempty"`
	Sources                []StepSource `json:"sources"`
	SaveToProject          bool         `json:"saveToProject"`
	OutputNameTemplate     string       `json:"outputNameTemplate,omitempty"`
	IsFinal                bool         `json:"isFinal,omitempty"`
}

// PipelineSpec is the ordered step list stored as the pipeline's definition.
type PipelineSpec struct {
	Steps []PipelineStep `json:"steps"`
}

func (s PipelineSpec) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *PipelineSpec) Scan(value interface{}) error {
	if value == nil {
		*s = PipelineSpec{}
		return nil
	}
	data, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unable to scan pipeline spec from %T", value)
	}

	return json.Unmarshal(data, s)
}

type GenerationPipeline struct {
	ID           string       `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	PipelineData PipelineSpec `db:"pipeline_data" json:"pipelineData"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updatedAt"`
}
