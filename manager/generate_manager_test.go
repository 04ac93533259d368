package manager

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidecreator/core/model"
)

func seedGeneratePrompts(t *testing.T, m *Manager) (generationPromptID, systemPromptID string) {
	t.Helper()

	generationPrompt, err := m.CreateGenerationPrompt("Deck Prompt", "Turn the sources into a deck.")
	require.NoError(t, err)
	systemPrompt, err := m.CreateSystemPrompt("Deck System", "You produce JSON presentations.")
	require.NoError(t, err)

	return generationPrompt.ID, systemPrompt.ID
}

func TestGeneratePersistsPresentation(t *testing.T) {
	store := newFakeStore()
	generator := &fakeGenerator{responses: []string{`{"slides": [{"title": "Intro"}, {"title": "Close"}]}`}}
	m := newTestManager(store, generator)

	generationPromptID, systemPromptID := seedGeneratePrompts(t, m)

	notes := "Revenue doubled."
	source := &model.Resource{
		Name:         "Notes",
		ResourceType: model.ResourceTypeSourceFile,
		ContentText:  &notes,
		ProjectID:    "p1",
	}
	require.NoError(t, store.CreateResource(source))

	resource, err := m.Generate(context.Background(), GenerateOptions{
		ProjectID:          "p1",
		SourceResourceIDs:  []string{source.ID},
		GenerationPromptID: generationPromptID,
		SystemPromptID:     systemPromptID,
		OutputName:         "Q3 Deck",
	})
	require.NoError(t, err)

	assert.Equal(t, "Q3 Deck", resource.Name)
	assert.Equal(t, model.ResourceTypePresentation, resource.ResourceType)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(resource.ContentJSON, &doc))
	assert.Equal(t, model.PresentationFormat, doc["_format"])
	assert.Len(t, doc["slides"], 2)

	call := generator.call(0)
	assert.Equal(t, "You produce JSON presentations.", call.SystemContent)
	assert.Contains(t, call.UserContent, "=== SOURCE: Notes ===")
	assert.Contains(t, call.UserContent, notes)
	assert.Contains(t, call.UserContent, "Turn the sources into a deck.")
}

func TestGenerateDefaultsOutputName(t *testing.T) {
	store := newFakeStore()
	generator := &fakeGenerator{responses: []string{`{"slides": []}`}}
	m := newTestManager(store, generator)

	generationPromptID, systemPromptID := seedGeneratePrompts(t, m)

	resource, err := m.Generate(context.Background(), GenerateOptions{
		ProjectID:          "p1",
		GenerationPromptID: generationPromptID,
		SystemPromptID:     systemPromptID,
	})
	require.NoError(t, err)
	assert.Contains(t, resource.Name, "Generated —")
}

func TestGenerateRejectsMissingPrompts(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store, &fakeGenerator{})

	_, err := m.Generate(context.Background(), GenerateOptions{GenerationPromptID: "missing"})
	assertUserError(t, err, 404, "Generation prompt not found.")

	generationPrompt, err := m.CreateGenerationPrompt("Deck Prompt", "content")
	require.NoError(t, err)

	_, err = m.Generate(context.Background(), GenerateOptions{
		GenerationPromptID: generationPrompt.ID,
		SystemPromptID:     "missing",
	})
	assertUserError(t, err, 404, "System prompt not found.")
}

func TestGenerateRejectsMissingSlides(t *testing.T) {
	store := newFakeStore()
	generator := &fakeGenerator{responses: []string{`{"title": "X"}`}}
	m := newTestManager(store, generator)

	generationPromptID, systemPromptID := seedGeneratePrompts(t, m)

	_, err := m.Generate(context.Background(), GenerateOptions{
		ProjectID:          "p1",
		GenerationPromptID: generationPromptID,
		SystemPromptID:     systemPromptID,
	})

	var malformed *MalformedOutputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "Invalid presentation structure: missing slides array", malformed.Message)
	assert.Equal(t, `{"title": "X"}`, malformed.RawResponse)

	// Nothing was persisted.
	resources, listErr := store.ListResources("p1")
	require.NoError(t, listErr)
	assert.Empty(t, resources)
}

func TestGenerateRejectsNonJSONOutput(t *testing.T) {
	store := newFakeStore()
	generator := &fakeGenerator{responses: []string{"Here is your deck!"}}
	m := newTestManager(store, generator)

	generationPromptID, systemPromptID := seedGeneratePrompts(t, m)

	_, err := m.Generate(context.Background(), GenerateOptions{
		GenerationPromptID: generationPromptID,
		SystemPromptID:     systemPromptID,
	})

	var malformed *MalformedOutputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "Failed to parse generation response as JSON", malformed.Message)
	assert.Equal(t, "Here is your deck!", malformed.RawResponse)
}

func TestGenerateSubstitutesOutputFormats(t *testing.T) {
	store := newFakeStore()
	generator := &fakeGenerator{responses: []string{`{"slides": []}`}}
	m := newTestManager(store, generator)

	_, err := m.CreateOutputFormat("Slide Schema", "title plus bullet list")
	require.NoError(t, err)

	generationPrompt, err := m.CreateGenerationPrompt("Deck Prompt", "Follow {{Slide Schema}} exactly.")
	require.NoError(t, err)
	systemPrompt, err := m.CreateSystemPrompt("Deck System", "Respect {{Slide Schema}}.")
	require.NoError(t, err)

	_, err = m.Generate(context.Background(), GenerateOptions{
		GenerationPromptID: generationPrompt.ID,
		SystemPromptID:     systemPrompt.ID,
	})
	require.NoError(t, err)

	call := generator.call(0)
	assert.Equal(t, "Respect title plus bullet list.", call.SystemContent)
	assert.Contains(t, call.UserContent, "Follow title plus bullet list exactly.")
}
