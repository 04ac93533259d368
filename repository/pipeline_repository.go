package repository

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/slidecreator/core/model"
)

type PipelineRepository struct {
	db *DB
	sb sq.StatementBuilderType
}

func NewPipelineRepository(db *DB) *PipelineRepository {
	return &PipelineRepository{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

func (r *PipelineRepository) CreatePipeline(pipeline *model.GenerationPipeline) error {
	pipeline.ID = uuid.NewString()
	pipeline.CreatedAt = time.Now().UTC()
	pipeline.UpdatedAt = pipeline.CreatedAt

	_, err := r.sb.Insert("generation_pipelines").
		SetMap(sq.Eq{
			"id":            pipeline.ID,
			"name":          pipeline.Name,
			"pipeline_data": pipeline.PipelineData,
			"created_at":    pipeline.CreatedAt,
			"updated_at":    pipeline.UpdatedAt,
		}).
		RunWith(r.db).
		Exec()

	return err
}

func (r *PipelineRepository) GetPipeline(id string) (pipeline *model.GenerationPipeline, err error) {
	pipeline = &model.GenerationPipeline{}

	builder := r.sb.Select("id", "name", "pipeline_data", "created_at", "updated_at").
		From("generation_pipelines").
		Where(sq.Eq{"id": id}).
		Limit(1)
	if err = r.db.Getx(pipeline, builder); err == sql.ErrNoRows {
		err = nil
		pipeline = nil
	}

	return
}

func (r *PipelineRepository) ListPipelines() (pipelines []*model.GenerationPipeline, err error) {
	pipelines = []*model.GenerationPipeline{}

	builder := r.sb.Select("id", "name", "pipeline_data", "created_at", "updated_at").
		From("generation_pipelines").
		OrderBy("created_at asc")
	err = r.db.Selectx(&pipelines, builder)

	return
}

func (r *PipelineRepository) UpdatePipeline(id string, changes map[string]interface{}) error {
	changes["updated_at"] = time.Now().UTC()

	_, err := r.sb.Update("generation_pipelines").
		SetMap(changes).
		Where(sq.Eq{"id": id}).
		RunWith(r.db).
		Exec()

	return err
}

func (r *PipelineRepository) DeletePipeline(id string) error {
	_, err := r.sb.Delete("generation_pipelines").
		Where(sq.Eq{"id": id}).
		RunWith(r.db).
		Exec()

	return err
}
