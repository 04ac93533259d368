package server

import (
	"net/http"

	"github.com/slidecreator/core/model"
)

func (s *Server) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.manager.ListProjects()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) CreateProject(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Name string `json:"name"`
	}{}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	project, err := s.manager.CreateProject(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (s *Server) UpdateProject(w http.ResponseWriter, r *http.Request) {
	changes, err := decodeChanges(r, map[string]string{"name": "name"})
	if err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	if err := s.manager.UpdateProject(id, changes); err != nil {
		writeError(w, err)
		return
	}

	project, err := s.manager.GetProject(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.DeleteProject(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := s.manager.ListFolders(r.PathValue("projectId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

func (s *Server) CreateFolder(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Name     string  `json:"name"`
		ParentID *string `json:"parentId"`
	}{}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	folder := &model.Folder{
		Name:      req.Name,
		ProjectID: r.PathValue("projectId"),
		ParentID:  req.ParentID,
	}
	created, err := s.manager.CreateFolder(folder)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	changes, err := decodeChanges(r, map[string]string{
		"name":      "name",
		"parentId":  "parent_id",
		"sortOrder": "sort_order",
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if sortOrder, ok := changes["sort_order"].(float64); ok {
		changes["sort_order"] = int32(sortOrder)
	}

	if err := s.manager.UpdateFolder(r.PathValue("id"), changes); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.DeleteFolder(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
