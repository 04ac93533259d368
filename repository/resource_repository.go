package repository

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/slidecreator/core/model"
)

var resourceColumns = []string{"id", "name", "resource_type", "content_text", "content_json", "project_id", "folder_id", "created_at"}

type ResourceRepository struct {
	db *DB
	sb sq.StatementBuilderType
}

func NewResourceRepository(db *DB) *ResourceRepository {
	return &ResourceRepository{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

func (r *ResourceRepository) CreateResource(resource *model.Resource) error {
	resource.ID = uuid.NewString()
	resource.CreatedAt = time.Now().UTC()

	contentJSON := interface{}(nil)
	if len(resource.ContentJSON) > 0 {
		contentJSON = resource.ContentJSON
	}

	_, err := r.sb.Insert("resources").
		SetMap(sq.Eq{
			"id":            resource.ID,
			"name":          resource.Name,
			"resource_type": resource.ResourceType,
			"content_text":  resource.ContentText,
			"content_json":  contentJSON,
			"project_id":    resource.ProjectID,
			"folder_id":     resource.FolderID,
			"created_at":    resource.CreatedAt,
		}).
		RunWith(r.db).
		Exec()

	return err
}

func (r *ResourceRepository) GetResource(id string) (resource *model.Resource, err error) {
	resource = &model.Resource{}

	builder := r.sb.Select(resourceColumns...).
		From("resources").
		Where(sq.Eq{"id": id}).
		Limit(1)
	if err = r.db.Getx(resource, builder); err == sql.ErrNoRows {
		err = nil
		resource = nil
	}

	return
}

func (r *ResourceRepository) ListResources(projectID string) (resources []*model.Resource, err error) {
	resources = []*model.Resource{}

	builder := r.sb.Select(resourceColumns...).
		From("resources").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("created_at asc")
	err = r.db.Selectx(&resources, builder)

	return
}

// ListResourcesByIDs returns the resources whose ids are in the given set,
// in creation order. Missing ids are skipped, not errors.
func (r *ResourceRepository) ListResourcesByIDs(ids []string) (resources []*model.Resource, err error) {
	resources = []*model.Resource{}
	if len(ids) == 0 {
		return
	}

	builder := r.sb.Select(resourceColumns...).
		From("resources").
		Where(sq.Eq{"id": ids}).
		OrderBy("created_at asc")
	err = r.db.Selectx(&resources, builder)

	return
}

func (r *ResourceRepository) UpdateResource(id string, changes map[string]interface{}) error {
	_, err := r.sb.Update("resources").
		SetMap(changes).
		Where(sq.Eq{"id": id}).
		RunWith(r.db).
		Exec()

	return err
}

func (r *ResourceRepository) DeleteResource(id string) error {
	_, err := r.sb.Delete("resources").
		Where(sq.Eq{"id": id}).
		RunWith(r.db).
		Exec()

	return err
}
