package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Run lifecycle statuses. A run never pauses; it ends completed or failed.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Per-step statuses. Transitions are monotonic: pending, running, then one
// terminal state.
const (
	StepStatusPending   = "pending"
	StepStatusRunning   = "running"
	StepStatusCompleted = "completed"
	StepStatusFailed    = "failed"
)

// StepResult records the outcome of one step, positionally indexed. StepName
// is snapshotted at run creation and unaffected by later pipeline edits.
type StepResult struct {
	StepIndex  int    `json:"stepIndex"`
	StepName   string `json:"stepName"`
	Status     string `json:"status"`
	ResourceID string `json:"resourceId,omitempty"`
	Error      string `json:"error,omitempty"`
}

// StepResultList is stored as a JSONB column and sized once at run creation.
type StepResultList []StepResult

func (l StepResultList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *StepResultList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	data, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unable to scan step results from %T", value)
	}

	return json.Unmarshal(data, l)
}

// StringSlice is a JSONB-encoded list of identifiers.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	data, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unable to scan string slice from %T", value)
	}

	return json.Unmarshal(data, s)
}

// PipelineRun is one execution of a pipeline against a concrete project and
// source set. The engine is the sole writer while status is running; every
// write bumps Version so a stale read-modify-write cannot silently win.
type PipelineRun struct {
	ID                string         `db:"id" json:"id"`
	PipelineID        string         `db:"pipeline_id" json:"pipelineId"`
	ProjectID         string         `db:"project_id" json:"projectId"`
	Status            string         `db:"status" json:"status"`
	CurrentStep       int            `db:"current_step" json:"currentStep"`
	TotalSteps        int            `db:"total_steps" json:"totalSteps"`
	StepResults       StepResultList `db:"step_results" json:"stepResults"`
	OutputFolderID    *string        `db:"output_folder_id" json:"outputFolderId"`
	SourceResourceIDs StringSlice    `db:"source_resource_ids" json:"sourceResourceIds"`
	FinalResourceID   *string        `db:"final_resource_id" json:"finalResourceId"`
	Error             *string        `db:"error" json:"error"`
	Version           int64          `db:"version" json:"-"`
	StartedAt         time.Time      `db:"started_at" json:"startedAt"`
	CompletedAt       *time.Time     `db:"completed_at" json:"completedAt"`
}
