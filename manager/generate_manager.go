package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/slidecreator/core/model"
	"github.com/slidecreator/core/util"
)

// MalformedOutputError reports generation output that could not be accepted
// as a presentation. RawResponse carries the completion text verbatim so the
// caller can diagnose what the model actually returned.
type MalformedOutputError struct {
	Message     string
	RawResponse string
}

func (e *MalformedOutputError) Error() string {
	return e.Message
}

type GenerateOptions struct {
	ProjectID          string
	SourceResourceIDs  []string
	GenerationPromptID string
	SystemPromptID     string
	OutputFolderID     *string
	OutputName         string
}

// Generate runs one generation request end to end and persists the resulting
// presentation. The caller blocks until generation completes or fails; unlike
// pipeline steps, the output must parse as JSON and carry a slides array.
func (m *Manager) Generate(ctx context.Context, opts GenerateOptions) (*model.Resource, error) {
	generationPrompt, err := m.prompts.GetGenerationPrompt(opts.GenerationPromptID)
	if err != nil {
		return nil, err
	}
	if generationPrompt == nil {
		return nil, util.NewUserError(404, "Generation prompt not found.")
	}

	systemPrompt, err := m.prompts.GetSystemPrompt(opts.SystemPromptID)
	if err != nil {
		return nil, err
	}
	if systemPrompt == nil {
		return nil, util.NewUserError(404, "System prompt not found.")
	}

	sourceResources, err := m.resources.ListResourcesByIDs(opts.SourceResourceIDs)
	if err != nil {
		return nil, err
	}

	var userContent strings.Builder
	for _, resource := range sourceResources {
		fmt.Fprintf(&userContent, "=== SOURCE: %v ===\n%v\n\n", resource.Name, resource.Text())
	}

	generationContent, err := m.resolver.Substitute(generationPrompt.Content)
	if err != nil {
		return nil, err
	}
	userContent.WriteString(generationContent)

	systemContent, err := m.resolver.Substitute(systemPrompt.Content)
	if err != nil {
		return nil, err
	}

	raw, err := m.generator.Complete(ctx, systemContent, userContent.String())
	if err != nil {
		return nil, err
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &MalformedOutputError{
			Message:     "Failed to parse generation response as JSON",
			RawResponse: raw,
		}
	}

	slides, ok := doc["slides"]
	if !ok {
		return nil, &MalformedOutputError{
			Message:     "Invalid presentation structure: missing slides array",
			RawResponse: raw,
		}
	}
	if _, ok := slides.([]interface{}); !ok {
		return nil, &MalformedOutputError{
			Message:     "Invalid presentation structure: missing slides array",
			RawResponse: raw,
		}
	}

	model.StampFormat(doc)

	contentJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	name := opts.OutputName
	if name == "" {
		name = fmt.Sprintf("Generated — %v", time.Now().Format("Jan 2, 2006 3:04:05 PM"))
	}

	resource := &model.Resource{
		Name:         name,
		ResourceType: model.ResourceTypePresentation,
		ContentJSON:  contentJSON,
		ProjectID:    opts.ProjectID,
		FolderID:     opts.OutputFolderID,
	}
	if err := m.resources.CreateResource(resource); err != nil {
		return nil, err
	}

	return resource, nil
}
