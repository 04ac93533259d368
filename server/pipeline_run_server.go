package server

import (
	"net/http"

	"github.com/slidecreator/core/manager"
)

// CreatePipelineRun kicks off a run and returns the created record with all
// steps pending. The caller polls GetPipelineRun until the status is
// terminal; there is no push channel.
func (s *Server) CreatePipelineRun(w http.ResponseWriter, r *http.Request) {
	req := struct {
		PipelineID        string   `json:"pipelineId"`
		ProjectID         string   `json:"projectId"`
		SourceResourceIDs []string `json:"sourceResourceIds"`
		OutputFolderID    *string  `json:"outputFolderId"`
	}{}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	run, err := s.manager.LaunchPipelineRun(manager.RunOptions{
		PipelineID:        req.PipelineID,
		ProjectID:         req.ProjectID,
		SourceResourceIDs: req.SourceResourceIDs,
		OutputFolderID:    req.OutputFolderID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, run)
}

func (s *Server) GetPipelineRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.manager.GetPipelineRun(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) ListPipelineRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.manager.ListPipelineRuns(r.PathValue("projectId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}
