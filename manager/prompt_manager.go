package manager

import (
	"fmt"

	"github.com/slidecreator/core/model"
	"github.com/slidecreator/core/util"
)

// CheckNameUnique fails with a conflict error when any of the four named
// kinds (generation prompt, system prompt, output format, generation
// pipeline) already holds the name, excluding the record being renamed.
// Pipeline steps and prompt templates reference these kinds by name, so a
// name must identify exactly one record across all of them.
func (m *Manager) CheckNameUnique(name, excludeID string) error {
	owners, err := m.prompts.FindNameOwners(name)
	if err != nil {
		return err
	}

	for _, owner := range owners {
		if owner.ID != excludeID {
			return util.NewUserError(409, fmt.Sprintf("Name %q is already used by a %v", name, owner.Kind))
		}
	}

	return nil
}

func (m *Manager) CreateGenerationPrompt(name, content string) (*model.GenerationPrompt, error) {
	if name == "" {
		name = "New Prompt"
	}
	if err := m.CheckNameUnique(name, ""); err != nil {
		return nil, err
	}

	prompt := &model.GenerationPrompt{Name: name, Content: content}
	if err := m.prompts.CreateGenerationPrompt(prompt); err != nil {
		return nil, err
	}

	return prompt, nil
}

func (m *Manager) GetGenerationPrompt(id string) (*model.GenerationPrompt, error) {
	prompt, err := m.prompts.GetGenerationPrompt(id)
	if err != nil {
		return nil, err
	}
	if prompt == nil {
		return nil, util.NewUserError(404, "Generation prompt not found.")
	}

	return prompt, nil
}

func (m *Manager) ListGenerationPrompts() ([]*model.GenerationPrompt, error) {
	return m.prompts.ListGenerationPrompts()
}

func (m *Manager) UpdateGenerationPrompt(id string, changes map[string]interface{}) error {
	if name, ok := changes["name"].(string); ok {
		if err := m.CheckNameUnique(name, id); err != nil {
			return err
		}
	}

	return m.prompts.UpdateGenerationPrompt(id, changes)
}

func (m *Manager) DeleteGenerationPrompt(id string) error {
	return m.prompts.DeleteGenerationPrompt(id)
}

func (m *Manager) CreateSystemPrompt(name, content string) (*model.SystemPrompt, error) {
	if name == "" {
		name = "New Prompt"
	}
	if err := m.CheckNameUnique(name, ""); err != nil {
		return nil, err
	}

	prompt := &model.SystemPrompt{Name: name, Content: content}
	if err := m.prompts.CreateSystemPrompt(prompt); err != nil {
		return nil, err
	}

	return prompt, nil
}

func (m *Manager) GetSystemPrompt(id string) (*model.SystemPrompt, error) {
	prompt, err := m.prompts.GetSystemPrompt(id)
	if err != nil {
		return nil, err
	}
	if prompt == nil {
		return nil, util.NewUserError(404, "System prompt not found.")
	}

	return prompt, nil
}

func (m *Manager) ListSystemPrompts() ([]*model.SystemPrompt, error) {
	return m.prompts.ListSystemPrompts()
}

func (m *Manager) UpdateSystemPrompt(id string, changes map[string]interface{}) error {
	if name, ok := changes["name"].(string); ok {
		if err := m.CheckNameUnique(name, id); err != nil {
			return err
		}
	}

	return m.prompts.UpdateSystemPrompt(id, changes)
}

func (m *Manager) DeleteSystemPrompt(id string) error {
	return m.prompts.DeleteSystemPrompt(id)
}

func (m *Manager) CreateOutputFormat(name, content string) (*model.OutputFormat, error) {
	if name == "" {
		name = "New Format"
	}
	if err := m.CheckNameUnique(name, ""); err != nil {
		return nil, err
	}

	format := &model.OutputFormat{Name: name, Content: content}
	if err := m.prompts.CreateOutputFormat(format); err != nil {
		return nil, err
	}
	m.resolver.Invalidate()

	return format, nil
}

func (m *Manager) GetOutputFormat(id string) (*model.OutputFormat, error) {
	format, err := m.prompts.GetOutputFormat(id)
	if err != nil {
		return nil, err
	}
	if format == nil {
		return nil, util.NewUserError(404, "Output format not found.")
	}

	return format, nil
}

func (m *Manager) ListOutputFormats() ([]*model.OutputFormat, error) {
	return m.prompts.ListOutputFormats()
}

func (m *Manager) UpdateOutputFormat(id string, changes map[string]interface{}) error {
	if name, ok := changes["name"].(string); ok {
		if err := m.CheckNameUnique(name, id); err != nil {
			return err
		}
	}

	if err := m.prompts.UpdateOutputFormat(id, changes); err != nil {
		return err
	}
	m.resolver.Invalidate()

	return nil
}

func (m *Manager) DeleteOutputFormat(id string) error {
	if err := m.prompts.DeleteOutputFormat(id); err != nil {
		return err
	}
	m.resolver.Invalidate()

	return nil
}
