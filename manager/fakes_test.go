package manager

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidecreator/core/model"
	"github.com/slidecreator/core/repository"
	"github.com/slidecreator/core/template"
	"github.com/slidecreator/core/util"
)

func assertUserError(t *testing.T, err error, code int, message string) {
	t.Helper()

	var userError *util.UserError
	require.ErrorAs(t, err, &userError)
	assert.Equal(t, code, userError.Code)
	assert.Contains(t, userError.Message, message)
}

// fakeStore is an in-memory stand-in for every repository the manager
// consumes. Reads hand out copies so the engine's read-modify-write cycle
// behaves like it does against the database.
type fakeStore struct {
	mu sync.Mutex

	projects          map[string]*model.Project
	folders           map[string]*model.Folder
	resources         []*model.Resource
	generationPrompts map[string]*model.GenerationPrompt
	systemPrompts     map[string]*model.SystemPrompt
	outputFormats     map[string]*model.OutputFormat
	pipelines         map[string]*model.GenerationPipeline
	runs              map[string]*model.PipelineRun
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects:          map[string]*model.Project{},
		folders:           map[string]*model.Folder{},
		generationPrompts: map[string]*model.GenerationPrompt{},
		systemPrompts:     map[string]*model.SystemPrompt{},
		outputFormats:     map[string]*model.OutputFormat{},
		pipelines:         map[string]*model.GenerationPipeline{},
		runs:              map[string]*model.PipelineRun{},
	}
}

func newTestManager(store *fakeStore, generator *fakeGenerator) *Manager {
	return &Manager{
		projects:  store,
		folders:   store,
		resources: store,
		prompts:   store,
		pipelines: store,
		runs:      store,
		generator: generator,
		resolver:  template.NewResolver(store),
	}
}

func (s *fakeStore) CreateProject(project *model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	project.ID = uuid.NewString()
	s.projects[project.ID] = project
	return nil
}

func (s *fakeStore) GetProject(id string) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects[id], nil
}

func (s *fakeStore) ListProjects() ([]*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	projects := []*model.Project{}
	for _, project := range s.projects {
		projects = append(projects, project)
	}
	return projects, nil
}

func (s *fakeStore) UpdateProject(id string, changes map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if project, ok := s.projects[id]; ok {
		if name, ok := changes["name"].(string); ok {
			project.Name = name
		}
	}
	return nil
}

func (s *fakeStore) DeleteProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.projects, id)
	return nil
}

func (s *fakeStore) CreateFolder(folder *model.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	folder.ID = uuid.NewString()
	s.folders[folder.ID] = folder
	return nil
}

func (s *fakeStore) ListFolders(projectID string) ([]*model.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	folders := []*model.Folder{}
	for _, folder := range s.folders {
		if folder.ProjectID == projectID {
			folders = append(folders, folder)
		}
	}
	return folders, nil
}

func (s *fakeStore) UpdateFolder(id string, changes map[string]interface{}) error {
	return nil
}

func (s *fakeStore) DeleteFolder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.folders, id)
	return nil
}

func (s *fakeStore) CreateResource(resource *model.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	resource.ID = uuid.NewString()
	copied := *resource
	s.resources = append(s.resources, &copied)
	return nil
}

func (s *fakeStore) GetResource(id string) (*model.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, resource := range s.resources {
		if resource.ID == id {
			copied := *resource
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) ListResources(projectID string) ([]*model.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resources := []*model.Resource{}
	for _, resource := range s.resources {
		if resource.ProjectID == projectID {
			copied := *resource
			resources = append(resources, &copied)
		}
	}
	return resources, nil
}

func (s *fakeStore) ListResourcesByIDs(ids []string) ([]*model.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := map[string]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	resources := []*model.Resource{}
	for _, resource := range s.resources {
		if wanted[resource.ID] {
			copied := *resource
			resources = append(resources, &copied)
		}
	}
	return resources, nil
}

func (s *fakeStore) UpdateResource(id string, changes map[string]interface{}) error {
	return nil
}

func (s *fakeStore) DeleteResource(id string) error {
	return nil
}

func (s *fakeStore) CreateGenerationPrompt(prompt *model.GenerationPrompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prompt.ID = uuid.NewString()
	s.generationPrompts[prompt.ID] = prompt
	return nil
}

func (s *fakeStore) GetGenerationPrompt(id string) (*model.GenerationPrompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generationPrompts[id], nil
}

func (s *fakeStore) GetGenerationPromptByName(name string) (*model.GenerationPrompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, prompt := range s.generationPrompts {
		if prompt.Name == name {
			return prompt, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) ListGenerationPrompts() ([]*model.GenerationPrompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prompts := []*model.GenerationPrompt{}
	for _, prompt := range s.generationPrompts {
		prompts = append(prompts, prompt)
	}
	return prompts, nil
}

func (s *fakeStore) UpdateGenerationPrompt(id string, changes map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prompt, ok := s.generationPrompts[id]; ok {
		applyNamedChanges(changes, &prompt.Name, &prompt.Content)
	}
	return nil
}

func (s *fakeStore) DeleteGenerationPrompt(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.generationPrompts, id)
	return nil
}

func (s *fakeStore) CreateSystemPrompt(prompt *model.SystemPrompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prompt.ID = uuid.NewString()
	s.systemPrompts[prompt.ID] = prompt
	return nil
}

func (s *fakeStore) GetSystemPrompt(id string) (*model.SystemPrompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.systemPrompts[id], nil
}

func (s *fakeStore) GetSystemPromptByName(name string) (*model.SystemPrompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, prompt := range s.systemPrompts {
		if prompt.Name == name {
			return prompt, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) ListSystemPrompts() ([]*model.SystemPrompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prompts := []*model.SystemPrompt{}
	for _, prompt := range s.systemPrompts {
		prompts = append(prompts, prompt)
	}
	return prompts, nil
}

func (s *fakeStore) UpdateSystemPrompt(id string, changes map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prompt, ok := s.systemPrompts[id]; ok {
		applyNamedChanges(changes, &prompt.Name, &prompt.Content)
	}
	return nil
}

func (s *fakeStore) DeleteSystemPrompt(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.systemPrompts, id)
	return nil
}

func (s *fakeStore) CreateOutputFormat(format *model.OutputFormat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	format.ID = uuid.NewString()
	s.outputFormats[format.ID] = format
	return nil
}

func (s *fakeStore) GetOutputFormat(id string) (*model.OutputFormat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outputFormats[id], nil
}

func (s *fakeStore) ListOutputFormats() ([]*model.OutputFormat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	formats := []*model.OutputFormat{}
	for _, format := range s.outputFormats {
		formats = append(formats, format)
	}
	return formats, nil
}

func (s *fakeStore) UpdateOutputFormat(id string, changes map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if format, ok := s.outputFormats[id]; ok {
		applyNamedChanges(changes, &format.Name, &format.Content)
	}
	return nil
}

func (s *fakeStore) DeleteOutputFormat(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.outputFormats, id)
	return nil
}

func (s *fakeStore) FindNameOwners(name string) ([]*repository.NameOwner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owners := []*repository.NameOwner{}
	for _, prompt := range s.generationPrompts {
		if prompt.Name == name {
			owners = append(owners, &repository.NameOwner{ID: prompt.ID, Kind: "generation prompt"})
		}
	}
	for _, prompt := range s.systemPrompts {
		if prompt.Name == name {
			owners = append(owners, &repository.NameOwner{ID: prompt.ID, Kind: "system prompt"})
		}
	}
	for _, format := range s.outputFormats {
		if format.Name == name {
			owners = append(owners, &repository.NameOwner{ID: format.ID, Kind: "output format"})
		}
	}
	for _, pipeline := range s.pipelines {
		if pipeline.Name == name {
			owners = append(owners, &repository.NameOwner{ID: pipeline.ID, Kind: "generation pipeline"})
		}
	}
	return owners, nil
}

func (s *fakeStore) CreatePipeline(pipeline *model.GenerationPipeline) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pipeline.ID = uuid.NewString()
	s.pipelines[pipeline.ID] = pipeline
	return nil
}

func (s *fakeStore) GetPipeline(id string) (*model.GenerationPipeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipelines[id], nil
}

func (s *fakeStore) ListPipelines() ([]*model.GenerationPipeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pipelines := []*model.GenerationPipeline{}
	for _, pipeline := range s.pipelines {
		pipelines = append(pipelines, pipeline)
	}
	return pipelines, nil
}

func (s *fakeStore) UpdatePipeline(id string, changes map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pipeline, ok := s.pipelines[id]; ok {
		if name, ok := changes["name"].(string); ok {
			pipeline.Name = name
		}
		if spec, ok := changes["pipeline_data"].(model.PipelineSpec); ok {
			pipeline.PipelineData = spec
		}
	}
	return nil
}

func (s *fakeStore) DeletePipeline(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pipelines, id)
	return nil
}

func (s *fakeStore) CreateRun(run *model.PipelineRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run.ID = uuid.NewString()
	run.Version = 1
	s.runs[run.ID] = copyRun(run)
	return nil
}

func (s *fakeStore) GetRun(id string) (*model.PipelineRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, nil
	}
	return copyRun(run), nil
}

func (s *fakeStore) ListRuns(projectID string) ([]*model.PipelineRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	runs := []*model.PipelineRun{}
	for _, run := range s.runs {
		if run.ProjectID == projectID {
			runs = append(runs, copyRun(run))
		}
	}
	return runs, nil
}

func (s *fakeStore) SaveRun(run *model.PipelineRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.runs[run.ID]
	if !ok || stored.Version != run.Version {
		return repository.ErrRunConflict
	}
	run.Version++
	s.runs[run.ID] = copyRun(run)
	return nil
}

func copyRun(run *model.PipelineRun) *model.PipelineRun {
	copied := *run
	copied.StepResults = append(model.StepResultList{}, run.StepResults...)
	copied.SourceResourceIDs = append(model.StringSlice{}, run.SourceResourceIDs...)
	return &copied
}

func applyNamedChanges(changes map[string]interface{}, name, content *string) {
	if v, ok := changes["name"].(string); ok {
		*name = v
	}
	if v, ok := changes["content"].(string); ok {
		*content = v
	}
}

type generatorCall struct {
	SystemContent string
	UserContent   string
}

// fakeGenerator pops one scripted response per call and records what it was
// asked.
type fakeGenerator struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     []generatorCall
}

func (g *fakeGenerator) Complete(ctx context.Context, systemContent, userContent string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, generatorCall{SystemContent: systemContent, UserContent: userContent})

	index := len(g.calls) - 1
	if index < len(g.errs) && g.errs[index] != nil {
		return "", g.errs[index]
	}
	if index < len(g.responses) {
		return g.responses[index], nil
	}
	return "", fmt.Errorf("no scripted response for call %v", index)
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *fakeGenerator) call(i int) generatorCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[i]
}
