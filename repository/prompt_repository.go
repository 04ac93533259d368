package repository

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/slidecreator/core/model"
)

var namedColumns = []string{"id", "name", "content", "created_at", "updated_at"}

// PromptRepository stores the three named text kinds referenced from prompts
// and pipelines: generation prompts, system prompts and output formats.
type PromptRepository struct {
	db *DB
	sb sq.StatementBuilderType
}

func NewPromptRepository(db *DB) *PromptRepository {
	return &PromptRepository{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

func (r *PromptRepository) insertNamed(table, id, name, content string, createdAt time.Time) error {
	_, err := r.sb.Insert(table).
		SetMap(sq.Eq{
			"id":         id,
			"name":       name,
			"content":    content,
			"created_at": createdAt,
			"updated_at": createdAt,
		}).
		RunWith(r.db).
		Exec()

	return err
}

func (r *PromptRepository) namedSelectBuilder(table string) sq.SelectBuilder {
	return r.sb.Select(namedColumns...).From(table)
}

func (r *PromptRepository) updateNamed(table, id string, changes map[string]interface{}) error {
	changes["updated_at"] = time.Now().UTC()

	_, err := r.sb.Update(table).
		SetMap(changes).
		Where(sq.Eq{"id": id}).
		RunWith(r.db).
		Exec()

	return err
}

func (r *PromptRepository) deleteNamed(table, id string) error {
	_, err := r.sb.Delete(table).
		Where(sq.Eq{"id": id}).
		RunWith(r.db).
		Exec()

	return err
}

func (r *PromptRepository) CreateGenerationPrompt(prompt *model.GenerationPrompt) error {
	prompt.ID = uuid.NewString()
	prompt.CreatedAt = time.Now().UTC()
	prompt.UpdatedAt = prompt.CreatedAt

	return r.insertNamed("generation_prompts", prompt.ID, prompt.Name, prompt.Content, prompt.CreatedAt)
}

func (r *PromptRepository) GetGenerationPrompt(id string) (prompt *model.GenerationPrompt, err error) {
	prompt = &model.GenerationPrompt{}

	builder := r.namedSelectBuilder("generation_prompts").Where(sq.Eq{"id": id}).Limit(1)
	if err = r.db.Getx(prompt, builder); err == sql.ErrNoRows {
		err = nil
		prompt = nil
	}

	return
}

func (r *PromptRepository) GetGenerationPromptByName(name string) (prompt *model.GenerationPrompt, err error) {
	prompt = &model.GenerationPrompt{}

	builder := r.namedSelectBuilder("generation_prompts").Where(sq.Eq{"name": name}).Limit(1)
	if err = r.db.Getx(prompt, builder); err == sql.ErrNoRows {
		err = nil
		prompt = nil
	}

	return
}

func (r *PromptRepository) ListGenerationPrompts() (prompts []*model.GenerationPrompt, err error) {
	prompts = []*model.GenerationPrompt{}

	err = r.db.Selectx(&prompts, r.namedSelectBuilder("generation_prompts").OrderBy("created_at asc"))

	return
}

func (r *PromptRepository) UpdateGenerationPrompt(id string, changes map[string]interface{}) error {
	return r.updateNamed("generation_prompts", id, changes)
}

func (r *PromptRepository) DeleteGenerationPrompt(id string) error {
	return r.deleteNamed("generation_prompts", id)
}

func (r *PromptRepository) CreateSystemPrompt(prompt *model.SystemPrompt) error {
	prompt.ID = uuid.NewString()
	prompt.CreatedAt = time.Now().UTC()
	prompt.UpdatedAt = prompt.CreatedAt

	return r.insertNamed("system_prompts", prompt.ID, prompt.Name, prompt.Content, prompt.CreatedAt)
}

func (r *PromptRepository) GetSystemPrompt(id string) (prompt *model.SystemPrompt, err error) {
	prompt = &model.SystemPrompt{}

	builder := r.namedSelectBuilder("system_prompts").Where(sq.Eq{"id": id}).Limit(1)
	if err = r.db.Getx(prompt, builder); err == sql.ErrNoRows {
		err = nil
		prompt = nil
	}

	return
}

func (r *PromptRepository) GetSystemPromptByName(name string) (prompt *model.SystemPrompt, err error) {
	prompt = &model.SystemPrompt{}

	builder := r.namedSelectBuilder("system_prompts").Where(sq.Eq{"name": name}).Limit(1)
	if err = r.db.Getx(prompt, builder); err == sql.ErrNoRows {
		err = nil
		prompt = nil
	}

	return
}

func (r *PromptRepository) ListSystemPrompts() (prompts []*model.SystemPrompt, err error) {
	prompts = []*model.SystemPrompt{}

	err = r.db.Selectx(&prompts, r.namedSelectBuilder("system_prompts").OrderBy("created_at asc"))

	return
}

func (r *PromptRepository) UpdateSystemPrompt(id string, changes map[string]interface{}) error {
	return r.updateNamed("system_prompts", id, changes)
}

func (r *PromptRepository) DeleteSystemPrompt(id string) error {
	return r.deleteNamed("system_prompts", id)
}

func (r *PromptRepository) CreateOutputFormat(format *model.OutputFormat) error {
	format.ID = uuid.NewString()
	format.CreatedAt = time.Now().UTC()
	format.UpdatedAt = format.CreatedAt

	return r.insertNamed("output_formats", format.ID, format.Name, format.Content, format.CreatedAt)
}

func (r *PromptRepository) GetOutputFormat(id string) (format *model.OutputFormat, err error) {
	format = &model.OutputFormat{}

	builder := r.namedSelectBuilder("output_formats").Where(sq.Eq{"id": id}).Limit(1)
	if err = r.db.Getx(format, builder); err == sql.ErrNoRows {
		err = nil
		format = nil
	}

	return
}

func (r *PromptRepository) ListOutputFormats() (formats []*model.OutputFormat, err error) {
	formats = []*model.OutputFormat{}

	err = r.db.Selectx(&formats, r.namedSelectBuilder("output_formats").OrderBy("created_at asc"))

	return
}

func (r *PromptRepository) UpdateOutputFormat(id string, changes map[string]interface{}) error {
	return r.updateNamed("output_formats", id, changes)
}

func (r *PromptRepository) DeleteOutputFormat(id string) error {
	return r.deleteNamed("output_formats", id)
}

// NameOwner identifies the record currently holding a name, across all four
// named kinds.
type NameOwner struct {
	ID   string `db:"id"`
	Kind string
}

var namedKindTables = []struct {
	table string
	label string
}{
	{"generation_prompts", "generation prompt"},
	{"system_prompts", "system prompt"},
	{"output_formats", "output format"},
	{"generation_pipelines", "generation pipeline"},
}

// FindNameOwners returns every record, across the four named kinds, that
// holds the given name exactly. Names are matched case-sensitively.
func (r *PromptRepository) FindNameOwners(name string) (owners []*NameOwner, err error) {
	owners = []*NameOwner{}

	for _, kind := range namedKindTables {
		var id string
		builder := r.sb.Select("id").
			From(kind.table).
			Where(sq.Eq{"name": name}).
			Limit(1)
		if err = r.db.Getx(&id, builder); err == sql.ErrNoRows {
			err = nil
			continue
		}
		if err != nil {
			return nil, err
		}

		owners = append(owners, &NameOwner{ID: id, Kind: kind.label})
	}

	return
}
