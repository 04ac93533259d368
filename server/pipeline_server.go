package server

import (
	"encoding/json"
	"net/http"

	"github.com/slidecreator/core/model"
)

func (s *Server) ListPipelines(w http.ResponseWriter, r *http.Request) {
	pipelines, err := s.manager.ListPipelines()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pipelines)
}

func (s *Server) CreatePipeline(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Name         string              `json:"name"`
		PipelineData *model.PipelineSpec `json:"pipelineData"`
	}{}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	pipeline, err := s.manager.CreatePipeline(req.Name, req.PipelineData)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pipeline)
}

func (s *Server) GetPipeline(w http.ResponseWriter, r *http.Request) {
	pipeline, err := s.manager.GetPipeline(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pipeline)
}

func (s *Server) UpdatePipeline(w http.ResponseWriter, r *http.Request) {
	changes, err := decodeChanges(r, map[string]string{
		"name":         "name",
		"pipelineData": "pipeline_data",
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if pipelineData, exists := changes["pipeline_data"]; exists {
		data, err := json.Marshal(pipelineData)
		if err != nil {
			writeError(w, err)
			return
		}
		spec := model.PipelineSpec{}
		if err := json.Unmarshal(data, &spec); err != nil {
			writeError(w, err)
			return
		}
		changes["pipeline_data"] = spec
	}

	id := r.PathValue("id")
	if err := s.manager.UpdatePipeline(id, changes); err != nil {
		writeError(w, err)
		return
	}

	pipeline, err := s.manager.GetPipeline(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pipeline)
}

func (s *Server) DeletePipeline(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.DeletePipeline(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
