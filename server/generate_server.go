package server

import (
	"net/http"

	"github.com/slidecreator/core/manager"
)

// Generate runs a single-shot generation. The request blocks until the
// presentation is persisted or the call fails; there is no polling path.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	req := struct {
		ProjectID          string   `json:"projectId"`
		SourceResourceIDs  []string `json:"sourceResourceIds"`
		GenerationPromptID string   `json:"generationPromptId"`
		SystemPromptID     string   `json:"systemPromptId"`
		OutputFolderID     *string  `json:"outputFolderId"`
		OutputName         string   `json:"outputName"`
	}{}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	resource, err := s.manager.Generate(r.Context(), manager.GenerateOptions{
		ProjectID:          req.ProjectID,
		SourceResourceIDs:  req.SourceResourceIDs,
		GenerationPromptID: req.GenerationPromptID,
		SystemPromptID:     req.SystemPromptID,
		OutputFolderID:     req.OutputFolderID,
		OutputName:         req.OutputName,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resource)
}
