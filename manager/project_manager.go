package manager

import (
	"fmt"
	"strconv"
	"time"

	"github.com/slidecreator/core/model"
	"github.com/slidecreator/core/util"
)

func (m *Manager) CreateProject(name string) (*model.Project, error) {
	if name == "" {
		name = fmt.Sprintf("Project %v", strconv.FormatInt(time.Now().UnixMilli(), 36))
	}

	project := &model.Project{Name: name}
	if err := m.projects.CreateProject(project); err != nil {
		return nil, err
	}

	return project, nil
}

func (m *Manager) GetProject(id string) (*model.Project, error) {
	project, err := m.projects.GetProject(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, util.NewUserError(404, "Project not found.")
	}

	return project, nil
}

func (m *Manager) ListProjects() ([]*model.Project, error) {
	return m.projects.ListProjects()
}

func (m *Manager) UpdateProject(id string, changes map[string]interface{}) error {
	return m.projects.UpdateProject(id, changes)
}

func (m *Manager) DeleteProject(id string) error {
	return m.projects.DeleteProject(id)
}

func (m *Manager) CreateFolder(folder *model.Folder) (*model.Folder, error) {
	if folder.Name == "" {
		folder.Name = "New Folder"
	}
	if err := m.folders.CreateFolder(folder); err != nil {
		return nil, err
	}

	return folder, nil
}

func (m *Manager) ListFolders(projectID string) ([]*model.Folder, error) {
	return m.folders.ListFolders(projectID)
}

func (m *Manager) UpdateFolder(id string, changes map[string]interface{}) error {
	return m.folders.UpdateFolder(id, changes)
}

func (m *Manager) DeleteFolder(id string) error {
	return m.folders.DeleteFolder(id)
}
