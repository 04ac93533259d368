package model

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

const (
	ResourceTypePresentation = "presentation"
	ResourceTypeSourceFile   = "source_file"
)

// PresentationFormat is the layout version stamped onto accepted presentations.
const PresentationFormat = "slidecreator/presentation/v1"

// Resource is a project document. Exactly one of ContentText or ContentJSON
// carries the content: presentations hold parsed JSON, source files plain text.
type Resource struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	ResourceType string         `db:"resource_type" json:"resourceType"`
	ContentText  *string        `db:"content_text" json:"contentText"`
	ContentJSON  types.JSONText `db:"content_json" json:"contentJson"`
	ProjectID    string         `db:"project_id" json:"projectId"`
	FolderID     *string        `db:"folder_id" json:"folderId"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
}

// Text returns the textual rendering of the resource: plain text when present,
// otherwise the indented JSON content.
func (r *Resource) Text() string {
	if r.ContentText != nil && *r.ContentText != "" {
		return *r.ContentText
	}
	if len(r.ContentJSON) == 0 {
		return ""
	}

	var v interface{}
	if err := json.Unmarshal(r.ContentJSON, &v); err != nil {
		return string(r.ContentJSON)
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(r.ContentJSON)
	}

	return string(pretty)
}

// ParsePresentation reports whether raw is a JSON object carrying a slides
// array, returning the parsed document when it is.
func ParsePresentation(raw string) (map[string]interface{}, bool) {
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false
	}

	slides, ok := doc["slides"]
	if !ok {
		return nil, false
	}
	if _, ok := slides.([]interface{}); !ok {
		return nil, false
	}

	return doc, true
}

// StampFormat sets the presentation format marker if it is absent.
func StampFormat(doc map[string]interface{}) {
	if _, ok := doc["_format"]; !ok {
		doc["_format"] = PresentationFormat
	}
}
