package repository

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/slidecreator/core/model"
)

type ProjectRepository struct {
	db *DB
	sb sq.StatementBuilderType
}

func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

func (r *ProjectRepository) CreateProject(project *model.Project) error {
	project.ID = uuid.NewString()
	project.CreatedAt = time.Now().UTC()

	_, err := r.sb.Insert("projects").
		SetMap(sq.Eq{
			"id":         project.ID,
			"name":       project.Name,
			"created_at": project.CreatedAt,
		}).
		RunWith(r.db).
		Exec()

	return err
}

func (r *ProjectRepository) GetProject(id string) (project *model.Project, err error) {
	project = &model.Project{}

	builder := r.sb.Select("id", "name", "created_at").
		From("projects").
		Where(sq.Eq{"id": id}).
		Limit(1)
	if err = r.db.Getx(project, builder); err == sql.ErrNoRows {
		err = nil
		project = nil
	}

	return
}

func (r *ProjectRepository) ListProjects() (projects []*model.Project, err error) {
	projects = []*model.Project{}

	builder := r.sb.Select("id", "name", "created_at").
		From("projects").
		OrderBy("created_at desc")
	err = r.db.Selectx(&projects, builder)

	return
}

func (r *ProjectRepository) UpdateProject(id string, changes map[string]interface{}) error {
	_, err := r.sb.Update("projects").
		SetMap(changes).
		Where(sq.Eq{"id": id}).
		RunWith(r.db).
		Exec()

	return err
}

func (r *ProjectRepository) DeleteProject(id string) error {
	_, err := r.sb.Delete("projects").
		Where(sq.Eq{"id": id}).
		RunWith(r.db).
		Exec()

	return err
}
