package server

import (
	"encoding/json"
	"net/http"

	"github.com/jmoiron/sqlx/types"

	"github.com/slidecreator/core/model"
)

func (s *Server) ListResources(w http.ResponseWriter, r *http.Request) {
	resources, err := s.manager.ListResources(r.PathValue("projectId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resources)
}

func (s *Server) CreateResource(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Name         string          `json:"name"`
		ResourceType string          `json:"resourceType"`
		ContentText  *string         `json:"contentText"`
		ContentJSON  json.RawMessage `json:"contentJson"`
		FolderID     *string         `json:"folderId"`
	}{}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	resource := &model.Resource{
		Name:         req.Name,
		ResourceType: req.ResourceType,
		ContentText:  req.ContentText,
		ContentJSON:  types.JSONText(req.ContentJSON),
		ProjectID:    r.PathValue("projectId"),
		FolderID:     req.FolderID,
	}
	created, err := s.manager.CreateResource(resource)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) GetResource(w http.ResponseWriter, r *http.Request) {
	resource, err := s.manager.GetResource(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resource)
}

func (s *Server) UpdateResource(w http.ResponseWriter, r *http.Request) {
	changes, err := decodeChanges(r, map[string]string{
		"name":        "name",
		"contentText": "content_text",
		"contentJson": "content_json",
		"folderId":    "folder_id",
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if contentJSON, exists := changes["content_json"]; exists {
		data, err := json.Marshal(contentJSON)
		if err != nil {
			writeError(w, err)
			return
		}
		changes["content_json"] = types.JSONText(data)
	}

	id := r.PathValue("id")
	if err := s.manager.UpdateResource(id, changes); err != nil {
		writeError(w, err)
		return
	}

	resource, err := s.manager.GetResource(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resource)
}

func (s *Server) DeleteResource(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.DeleteResource(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
