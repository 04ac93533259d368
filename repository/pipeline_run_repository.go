package repository

import (
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/slidecreator/core/model"
	sqlutil "github.com/slidecreator/core/util/sql"
)

// ErrRunConflict is returned when a run update loses a version race. The
// engine is the sole writer per run, so hitting this means that invariant
// was broken somewhere.
var ErrRunConflict = errors.New("pipeline run was modified concurrently")

var runColumns = []string{
	"id", "pipeline_id", "project_id", "status", "current_step", "total_steps",
	"step_results", "output_folder_id", "source_resource_ids",
	"final_resource_id", "error", "version", "started_at", "completed_at",
}

type PipelineRunRepository struct {
	db *DB
	sb sq.StatementBuilderType
}

func NewPipelineRunRepository(db *DB) *PipelineRunRepository {
	return &PipelineRunRepository{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

func (r *PipelineRunRepository) CreateRun(run *model.PipelineRun) error {
	run.ID = uuid.NewString()
	run.Version = 1
	run.StartedAt = time.Now().UTC()

	_, err := r.sb.Insert("pipeline_runs").
		SetMap(sq.Eq{
			"id":                  run.ID,
			"pipeline_id":         run.PipelineID,
			"project_id":          run.ProjectID,
			"status":              run.Status,
			"current_step":        run.CurrentStep,
			"total_steps":         run.TotalSteps,
			"step_results":        run.StepResults,
			"output_folder_id":    run.OutputFolderID,
			"source_resource_ids": run.SourceResourceIDs,
			"final_resource_id":   run.FinalResourceID,
			"error":               run.Error,
			"version":             run.Version,
			"started_at":          run.StartedAt,
			"completed_at":        run.CompletedAt,
		}).
		RunWith(r.db).
		Exec()

	return err
}

func (r *PipelineRunRepository) runSelectBuilder() sq.SelectBuilder {
	return r.sb.Select(sqlutil.FormatColumnSelect(runColumns, "pr")...).
		From("pipeline_runs pr")
}

func (r *PipelineRunRepository) GetRun(id string) (run *model.PipelineRun, err error) {
	run = &model.PipelineRun{}

	builder := r.runSelectBuilder().
		Where(sq.Eq{"pr.id": id}).
		Limit(1)
	if err = r.db.Getx(run, builder); err == sql.ErrNoRows {
		err = nil
		run = nil
	}

	return
}

func (r *PipelineRunRepository) ListRuns(projectID string) (runs []*model.PipelineRun, err error) {
	runs = []*model.PipelineRun{}

	builder := r.runSelectBuilder().
		Where(sq.Eq{"pr.project_id": projectID}).
		OrderBy("pr.started_at desc")
	err = r.db.Selectx(&runs, builder)

	return
}

// SaveRun writes the run's mutable fields back, guarded by the version the
// caller read. On success the in-memory version is advanced to match the row.
func (r *PipelineRunRepository) SaveRun(run *model.PipelineRun) error {
	result, err := r.sb.Update("pipeline_runs").
		SetMap(sq.Eq{
			"status":            run.Status,
			"current_step":      run.CurrentStep,
			"step_results":      run.StepResults,
			"final_resource_id": run.FinalResourceID,
			"error":             run.Error,
			"completed_at":      run.CompletedAt,
		}).
		Set("version", run.Version+1).
		Where(sq.Eq{
			"id":      run.ID,
			"version": run.Version,
		}).
		RunWith(r.db).
		Exec()
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRunConflict
	}

	run.Version++

	return nil
}
