package repository

import (
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/slidecreator/core/model"
)

type FolderRepository struct {
	db *DB
	sb sq.StatementBuilderType
}

func NewFolderRepository(db *DB) *FolderRepository {
	return &FolderRepository{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

func (r *FolderRepository) CreateFolder(folder *model.Folder) error {
	folder.ID = uuid.NewString()
	folder.CreatedAt = time.Now().UTC()

	_, err := r.sb.Insert("folders").
		SetMap(sq.Eq{
			"id":         folder.ID,
			"name":       folder.Name,
			"project_id": folder.ProjectID,
			"parent_id":  folder.ParentID,
			"sort_order": folder.SortOrder,
			"created_at": folder.CreatedAt,
		}).
		RunWith(r.db).
		Exec()

	return err
}

func (r *FolderRepository) ListFolders(projectID string) (folders []*model.Folder, err error) {
	folders = []*model.Folder{}

	builder := r.sb.Select("id", "name", "project_id", "parent_id", "sort_order", "created_at").
		From("folders").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("sort_order asc")
	err = r.db.Selectx(&folders, builder)

	return
}

func (r *FolderRepository) UpdateFolder(id string, changes map[string]interface{}) error {
	_, err := r.sb.Update("folders").
		SetMap(changes).
		Where(sq.Eq{"id": id}).
		RunWith(r.db).
		Exec()

	return err
}

func (r *FolderRepository) DeleteFolder(id string) error {
	_, err := r.sb.Delete("folders").
		Where(sq.Eq{"id": id}).
		RunWith(r.db).
		Exec()

	return err
}
