package manager

import (
	"github.com/slidecreator/core/model"
	"github.com/slidecreator/core/util"
)

func (m *Manager) CreateResource(resource *model.Resource) (*model.Resource, error) {
	if err := m.resources.CreateResource(resource); err != nil {
		return nil, err
	}

	return resource, nil
}

func (m *Manager) GetResource(id string) (*model.Resource, error) {
	resource, err := m.resources.GetResource(id)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, util.NewUserError(404, "Resource not found.")
	}

	return resource, nil
}

func (m *Manager) ListResources(projectID string) ([]*model.Resource, error) {
	return m.resources.ListResources(projectID)
}

func (m *Manager) UpdateResource(id string, changes map[string]interface{}) error {
	return m.resources.UpdateResource(id, changes)
}

func (m *Manager) DeleteResource(id string) error {
	return m.resources.DeleteResource(id)
}
