package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/slidecreator/core/model"
	"github.com/slidecreator/core/util"
)

func (m *Manager) CreatePipeline(name string, spec *model.PipelineSpec) (*model.GenerationPipeline, error) {
	if name == "" {
		name = "New Pipeline"
	}
	if err := m.CheckNameUnique(name, ""); err != nil {
		return nil, err
	}

	pipeline := &model.GenerationPipeline{Name: name}
	if spec != nil {
		pipeline.PipelineData = *spec
	}
	if err := m.pipelines.CreatePipeline(pipeline); err != nil {
		return nil, err
	}

	return pipeline, nil
}

func (m *Manager) GetPipeline(id string) (*model.GenerationPipeline, error) {
	pipeline, err := m.pipelines.GetPipeline(id)
	if err != nil {
		return nil, err
	}
	if pipeline == nil {
		return nil, util.NewUserError(404, "Generation pipeline not found.")
	}

	return pipeline, nil
}

func (m *Manager) ListPipelines() ([]*model.GenerationPipeline, error) {
	return m.pipelines.ListPipelines()
}

func (m *Manager) UpdatePipeline(id string, changes map[string]interface{}) error {
	if name, ok := changes["name"].(string); ok {
		if err := m.CheckNameUnique(name, id); err != nil {
			return err
		}
	}

	return m.pipelines.UpdatePipeline(id, changes)
}

func (m *Manager) DeletePipeline(id string) error {
	return m.pipelines.DeletePipeline(id)
}

type RunOptions struct {
	PipelineID        string
	ProjectID         string
	SourceResourceIDs []string
	OutputFolderID    *string
}

// LaunchPipelineRun validates the pipeline, creates the run record with every
// step pending and starts execution in the background. The caller gets the
// run back immediately and polls it until the status is terminal.
func (m *Manager) LaunchPipelineRun(opts RunOptions) (*model.PipelineRun, error) {
	pipeline, err := m.pipelines.GetPipeline(opts.PipelineID)
	if err != nil {
		return nil, err
	}
	if pipeline == nil {
		return nil, util.NewUserError(400, "Pipeline not found")
	}

	steps := pipeline.PipelineData.Steps
	if len(steps) == 0 {
		return nil, util.NewUserError(400, "Pipeline has no steps")
	}

	stepResults := make(model.StepResultList, len(steps))
	for i, step := range steps {
		stepResults[i] = model.StepResult{
			StepIndex: i,
			StepName:  step.Name,
			Status:    model.StepStatusPending,
		}
	}

	run := &model.PipelineRun{
		PipelineID:        opts.PipelineID,
		ProjectID:         opts.ProjectID,
		Status:            model.RunStatusRunning,
		CurrentStep:       0,
		TotalSteps:        len(steps),
		StepResults:       stepResults,
		OutputFolderID:    opts.OutputFolderID,
		SourceResourceIDs: opts.SourceResourceIDs,
	}
	if err := m.runs.CreateRun(run); err != nil {
		return nil, err
	}

	// Fire and forget. The run row is the only link back to this goroutine;
	// nothing awaits it and a crashed run stays tied to this process.
	go m.executePipeline(context.Background(), run.ID, pipeline.PipelineData, opts)

	return run, nil
}

func (m *Manager) GetPipelineRun(id string) (*model.PipelineRun, error) {
	run, err := m.runs.GetRun(id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, util.NewUserError(404, "Pipeline run not found.")
	}

	return run, nil
}

func (m *Manager) ListPipelineRuns(projectID string) ([]*model.PipelineRun, error) {
	return m.runs.ListRuns(projectID)
}

// executePipeline runs every step in order, one at a time. Step outputs are
// held in memory for the lifetime of the run so later steps can consume them;
// pollers only ever see the persisted run record.
func (m *Manager) executePipeline(ctx context.Context, runID string, spec model.PipelineSpec, opts RunOptions) {
	sourceResources, err := m.resources.ListResourcesByIDs(opts.SourceResourceIDs)
	if err != nil {
		m.failRun(runID, fmt.Sprintf("Failed to load source resources: %v", err))
		return
	}

	projectName := "Project"
	project, err := m.projects.GetProject(opts.ProjectID)
	if err == nil && project != nil {
		projectName = project.Name
	}

	stepOutputs := make(map[int]string)
	var finalResourceID *string

	for i, step := range spec.Steps {
		if err := m.markStepRunning(runID, i); err != nil {
			log.WithFields(log.Fields{
				"RunID": runID,
				"Step":  i,
				"Error": err.Error(),
			}).Error("Pipeline run failed to persist step transition.")
			return
		}

		resourceID, isFinal, err := m.executeStep(ctx, step, i, spec, sourceResources, stepOutputs, projectName, opts)
		if err != nil {
			log.WithFields(log.Fields{
				"RunID": runID,
				"Step":  i,
				"Name":  step.Name,
				"Error": err.Error(),
			}).Error("Pipeline step failed.")

			if statusErr := m.updateStepStatus(runID, i, model.StepStatusFailed, "", err.Error()); statusErr != nil {
				log.WithFields(log.Fields{
					"RunID": runID,
					"Step":  i,
					"Error": statusErr.Error(),
				}).Error("Pipeline run failed to record step failure.")
			}
			m.failRun(runID, fmt.Sprintf("Step %q failed: %v", step.Name, err))
			return
		}

		if isFinal && resourceID != "" {
			id := resourceID
			finalResourceID = &id
		}

		if err := m.updateStepStatus(runID, i, model.StepStatusCompleted, resourceID, ""); err != nil {
			log.WithFields(log.Fields{
				"RunID": runID,
				"Step":  i,
				"Error": err.Error(),
			}).Error("Pipeline run failed to persist step completion.")
			return
		}
	}

	m.completeRun(runID, finalResourceID)
}

// executeStep resolves the step's prompts and sources, invokes the generation
// adapter once and optionally persists the output as a resource. The raw
// response is always captured into stepOutputs, persisted or not.
func (m *Manager) executeStep(
	ctx context.Context,
	step model.PipelineStep,
	stepIndex int,
	spec model.PipelineSpec,
	sourceResources []*model.Resource,
	stepOutputs map[int]string,
	projectName string,
	opts RunOptions,
) (resourceID string, isFinal bool, err error) {
	systemContent, err := m.resolveStepSystemPrompt(step)
	if err != nil {
		return "", false, err
	}

	generationContent, err := m.resolveStepGenerationPrompt(step)
	if err != nil {
		return "", false, err
	}

	userContent := buildUserContent(step, spec, sourceResources, stepOutputs)

	generationContent, err = m.resolver.Substitute(generationContent)
	if err != nil {
		return "", false, err
	}
	userContent += generationContent

	systemContent, err = m.resolver.Substitute(systemContent)
	if err != nil {
		return "", false, err
	}

	raw, err := m.generator.Complete(ctx, systemContent, userContent)
	if err != nil {
		return "", false, err
	}

	stepOutputs[stepIndex] = raw

	if !step.SaveToProject {
		return "", false, nil
	}

	resource, err := m.persistStepOutput(step, raw, projectName, opts)
	if err != nil {
		return "", false, err
	}

	return resource.ID, step.IsFinal, nil
}

func (m *Manager) resolveStepSystemPrompt(step model.PipelineStep) (string, error) {
	if step.SystemPromptInline != "" {
		return step.SystemPromptInline, nil
	}
	if step.SystemPrompt != "" {
		prompt, err := m.prompts.GetSystemPromptByName(step.SystemPrompt)
		if err != nil {
			return "", err
		}
		if prompt == nil {
			return "", fmt.Errorf("system prompt not found: %q", step.SystemPrompt)
		}
		return prompt.Content, nil
	}

	return "", fmt.Errorf("step %q has no system prompt", step.Name)
}

func (m *Manager) resolveStepGenerationPrompt(step model.PipelineStep) (string, error) {
	if step.GenerationPromptInline != "" {
		return step.GenerationPromptInline, nil
	}
	if step.GenerationPrompt != "" {
		prompt, err := m.prompts.GetGenerationPromptByName(step.GenerationPrompt)
		if err != nil {
			return "", err
		}
		if prompt == nil {
			return "", fmt.Errorf("generation prompt not found: %q", step.GenerationPrompt)
		}
		return prompt.Content, nil
	}

	return "", fmt.Errorf("step %q has no generation prompt", step.Name)
}

// buildUserContent concatenates, in source-list order, the textual rendering
// of every configured source. A step_output source whose step never produced
// output contributes nothing.
func buildUserContent(step model.PipelineStep, spec model.PipelineSpec, sourceResources []*model.Resource, stepOutputs map[int]string) string {
	var userContent strings.Builder

	for _, source := range step.Sources {
		switch source.Type {
		case model.SourceProjectResources:
			for _, resource := range sourceResources {
				fmt.Fprintf(&userContent, "=== SOURCE: %v ===\n%v\n\n", resource.Name, resource.Text())
			}
		case model.SourceStepOutput:
			if source.Step == nil {
				continue
			}
			output, ok := stepOutputs[*source.Step]
			if !ok || output == "" {
				continue
			}
			fmt.Fprintf(&userContent, "=== OUTPUT FROM STEP %q ===\n%v\n\n", stepDisplayName(spec, *source.Step), output)
		case model.SourceAllStepOutputs:
			indexes := make([]int, 0, len(stepOutputs))
			for idx := range stepOutputs {
				indexes = append(indexes, idx)
			}
			sort.Ints(indexes)
			for _, idx := range indexes {
				fmt.Fprintf(&userContent, "=== OUTPUT FROM STEP %q ===\n%v\n\n", stepDisplayName(spec, idx), stepOutputs[idx])
			}
		}
	}

	return userContent.String()
}

func stepDisplayName(spec model.PipelineSpec, stepIndex int) string {
	if stepIndex >= 0 && stepIndex < len(spec.Steps) && spec.Steps[stepIndex].Name != "" {
		return spec.Steps[stepIndex].Name
	}
	return fmt.Sprintf("Step %v", stepIndex)
}

// persistStepOutput stores the raw step output as a project resource. Output
// that parses as a presentation is stamped and stored structurally; anything
// else is kept verbatim as a source file rather than rejected, since a step's
// output may be an intermediate artifact and not a presentation at all.
func (m *Manager) persistStepOutput(step model.PipelineStep, raw, projectName string, opts RunOptions) (*model.Resource, error) {
	resource := &model.Resource{
		ProjectID: opts.ProjectID,
		FolderID:  opts.OutputFolderID,
	}

	doc, isPresentation := model.ParsePresentation(raw)
	if isPresentation {
		model.StampFormat(doc)
		contentJSON, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		resource.ResourceType = model.ResourceTypePresentation
		resource.ContentJSON = contentJSON
	} else {
		text := raw
		resource.ResourceType = model.ResourceTypeSourceFile
		resource.ContentText = &text
	}

	fallback := fmt.Sprintf("%v - %v", projectName, step.Name)
	resource.Name = resolveOutputName(step.OutputNameTemplate, fallback, map[string]string{
		"project":   projectName,
		"step":      step.Name,
		"timestamp": time.Now().Format("060102:15:04:05"),
	})

	if err := m.resources.CreateResource(resource); err != nil {
		return nil, err
	}

	return resource, nil
}

var outputNamePattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// resolveOutputName expands {{project}}, {{step}} and {{timestamp}} in the
// step's output-name template. Unknown variables expand to the empty string.
func resolveOutputName(template, fallback string, vars map[string]string) string {
	if template == "" {
		return fallback
	}

	return outputNamePattern.ReplaceAllStringFunc(template, func(match string) string {
		return vars[match[2:len(match)-2]]
	})
}

// markStepRunning moves the step to running and advances the run's current
// step pointer in one persisted write, so pollers observe progress mid-step.
func (m *Manager) markStepRunning(runID string, stepIndex int) error {
	run, err := m.runs.GetRun(runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("pipeline run %v not found", runID)
	}

	if stepIndex < len(run.StepResults) {
		run.StepResults[stepIndex].Status = model.StepStatusRunning
	}
	run.CurrentStep = stepIndex

	return m.runs.SaveRun(run)
}

func (m *Manager) updateStepStatus(runID string, stepIndex int, status, resourceID, errMsg string) error {
	run, err := m.runs.GetRun(runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("pipeline run %v not found", runID)
	}

	if stepIndex < len(run.StepResults) {
		run.StepResults[stepIndex].Status = status
		if resourceID != "" {
			run.StepResults[stepIndex].ResourceID = resourceID
		}
		if errMsg != "" {
			run.StepResults[stepIndex].Error = errMsg
		}
	}

	return m.runs.SaveRun(run)
}

// failRun marks the run terminally failed. Resources persisted by completed
// steps are left in place.
func (m *Manager) failRun(runID, message string) {
	run, err := m.runs.GetRun(runID)
	if err != nil || run == nil {
		log.WithFields(log.Fields{
			"RunID": runID,
		}).Error("Pipeline run could not be loaded to record failure.")
		return
	}

	now := time.Now().UTC()
	run.Status = model.RunStatusFailed
	run.Error = &message
	run.CompletedAt = &now

	if err := m.runs.SaveRun(run); err != nil {
		log.WithFields(log.Fields{
			"RunID": runID,
			"Error": err.Error(),
		}).Error("Pipeline run failure could not be persisted.")
	}
}

func (m *Manager) completeRun(runID string, finalResourceID *string) {
	run, err := m.runs.GetRun(runID)
	if err != nil || run == nil {
		log.WithFields(log.Fields{
			"RunID": runID,
		}).Error("Pipeline run could not be loaded to record completion.")
		return
	}

	now := time.Now().UTC()
	run.Status = model.RunStatusCompleted
	run.FinalResourceID = finalResourceID
	run.CompletedAt = &now

	if err := m.runs.SaveRun(run); err != nil {
		log.WithFields(log.Fields{
			"RunID": runID,
			"Error": err.Error(),
		}).Error("Pipeline run completion could not be persisted.")
	}
}
