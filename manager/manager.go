// Package manager holds the business logic: resource and prompt management,
// the single-shot generator and the pipeline run engine.
package manager

import (
	"github.com/slidecreator/core/generation"
	"github.com/slidecreator/core/model"
	"github.com/slidecreator/core/repository"
	"github.com/slidecreator/core/template"
)

type ProjectStore interface {
	CreateProject(project *model.Project) error
	GetProject(id string) (*model.Project, error)
	ListProjects() ([]*model.Project, error)
	UpdateProject(id string, changes map[string]interface{}) error
	DeleteProject(id string) error
}

type FolderStore interface {
	CreateFolder(folder *model.Folder) error
	ListFolders(projectID string) ([]*model.Folder, error)
	UpdateFolder(id string, changes map[string]interface{}) error
	DeleteFolder(id string) error
}

type ResourceStore interface {
	CreateResource(resource *model.Resource) error
	GetResource(id string) (*model.Resource, error)
	ListResources(projectID string) ([]*model.Resource, error)
	ListResourcesByIDs(ids []string) ([]*model.Resource, error)
	UpdateResource(id string, changes map[string]interface{}) error
	DeleteResource(id string) error
}

type PromptStore interface {
	CreateGenerationPrompt(prompt *model.GenerationPrompt) error
	GetGenerationPrompt(id string) (*model.GenerationPrompt, error)
	GetGenerationPromptByName(name string) (*model.GenerationPrompt, error)
	ListGenerationPrompts() ([]*model.GenerationPrompt, error)
	UpdateGenerationPrompt(id string, changes map[string]interface{}) error
	DeleteGenerationPrompt(id string) error

	CreateSystemPrompt(prompt *model.SystemPrompt) error
	GetSystemPrompt(id string) (*model.SystemPrompt, error)
	GetSystemPromptByName(name string) (*model.SystemPrompt, error)
	ListSystemPrompts() ([]*model.SystemPrompt, error)
	UpdateSystemPrompt(id string, changes map[string]interface{}) error
	DeleteSystemPrompt(id string) error

	CreateOutputFormat(format *model.OutputFormat) error
	GetOutputFormat(id string) (*model.OutputFormat, error)
	ListOutputFormats() ([]*model.OutputFormat, error)
	UpdateOutputFormat(id string, changes map[string]interface{}) error
	DeleteOutputFormat(id string) error

	FindNameOwners(name string) ([]*repository.NameOwner, error)
}

type PipelineStore interface {
	CreatePipeline(pipeline *model.GenerationPipeline) error
	GetPipeline(id string) (*model.GenerationPipeline, error)
	ListPipelines() ([]*model.GenerationPipeline, error)
	UpdatePipeline(id string, changes map[string]interface{}) error
	DeletePipeline(id string) error
}

type RunStore interface {
	CreateRun(run *model.PipelineRun) error
	GetRun(id string) (*model.PipelineRun, error)
	ListRuns(projectID string) ([]*model.PipelineRun, error)
	SaveRun(run *model.PipelineRun) error
}

type Manager struct {
	projects  ProjectStore
	folders   FolderStore
	resources ResourceStore
	prompts   PromptStore
	pipelines PipelineStore
	runs      RunStore
	generator generation.Generator
	resolver  *template.Resolver
}

func NewManager(db *repository.DB, generator generation.Generator) *Manager {
	prompts := repository.NewPromptRepository(db)

	return &Manager{
		projects:  repository.NewProjectRepository(db),
		folders:   repository.NewFolderRepository(db),
		resources: repository.NewResourceRepository(db),
		prompts:   prompts,
		pipelines: repository.NewPipelineRepository(db),
		runs:      repository.NewPipelineRunRepository(db),
		generator: generator,
		resolver:  template.NewResolver(prompts),
	}
}
