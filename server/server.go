// Package server exposes the JSON API over HTTP. Handlers stay thin and
// delegate to the manager; errors are mapped from the manager's taxonomy.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/slidecreator/core/manager"
	"github.com/slidecreator/core/util"
)

type Server struct {
	manager *manager.Manager
}

func NewServer(m *manager.Manager) *Server {
	return &Server{manager: m}
}

// Routes registers every API route on a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/projects", s.ListProjects)
	mux.HandleFunc("POST /api/projects", s.CreateProject)
	mux.HandleFunc("PATCH /api/projects/{id}", s.UpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", s.DeleteProject)

	mux.HandleFunc("GET /api/projects/{projectId}/folders", s.ListFolders)
	mux.HandleFunc("POST /api/projects/{projectId}/folders", s.CreateFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", s.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", s.DeleteFolder)

	mux.HandleFunc("GET /api/projects/{projectId}/resources", s.ListResources)
	mux.HandleFunc("POST /api/projects/{projectId}/resources", s.CreateResource)
	mux.HandleFunc("GET /api/resources/{id}", s.GetResource)
	mux.HandleFunc("PATCH /api/resources/{id}", s.UpdateResource)
	mux.HandleFunc("DELETE /api/resources/{id}", s.DeleteResource)

	mux.HandleFunc("GET /api/generation-prompts", s.ListGenerationPrompts)
	mux.HandleFunc("POST /api/generation-prompts", s.CreateGenerationPrompt)
	mux.HandleFunc("GET /api/generation-prompts/{id}", s.GetGenerationPrompt)
	mux.HandleFunc("PATCH /api/generation-prompts/{id}", s.UpdateGenerationPrompt)
	mux.HandleFunc("DELETE /api/generation-prompts/{id}", s.DeleteGenerationPrompt)

	mux.HandleFunc("GET /api/system-prompts", s.ListSystemPrompts)
	mux.HandleFunc("POST /api/system-prompts", s.CreateSystemPrompt)
	mux.HandleFunc("GET /api/system-prompts/{id}", s.GetSystemPrompt)
	mux.HandleFunc("PATCH /api/system-prompts/{id}", s.UpdateSystemPrompt)
	mux.HandleFunc("DELETE /api/system-prompts/{id}", s.DeleteSystemPrompt)

	mux.HandleFunc("GET /api/output-formats", s.ListOutputFormats)
	mux.HandleFunc("POST /api/output-formats", s.CreateOutputFormat)
	mux.HandleFunc("GET /api/output-formats/{id}", s.GetOutputFormat)
	mux.HandleFunc("PATCH /api/output-formats/{id}", s.UpdateOutputFormat)
	mux.HandleFunc("DELETE /api/output-formats/{id}", s.DeleteOutputFormat)

	mux.HandleFunc("GET /api/generation-pipelines", s.ListPipelines)
	mux.HandleFunc("POST /api/generation-pipelines", s.CreatePipeline)
	mux.HandleFunc("GET /api/generation-pipelines/{id}", s.GetPipeline)
	mux.HandleFunc("PATCH /api/generation-pipelines/{id}", s.UpdatePipeline)
	mux.HandleFunc("DELETE /api/generation-pipelines/{id}", s.DeletePipeline)

	mux.HandleFunc("POST /api/pipeline-runs", s.CreatePipelineRun)
	mux.HandleFunc("GET /api/pipeline-runs/{id}", s.GetPipelineRun)
	mux.HandleFunc("GET /api/projects/{projectId}/pipeline-runs", s.ListPipelineRuns)

	mux.HandleFunc("POST /api/generate", s.Generate)

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithFields(log.Fields{
			"Error": err.Error(),
		}).Error("Failed to encode response.")
	}
}

func writeError(w http.ResponseWriter, err error) {
	var userErr *util.UserError
	if errors.As(err, &userErr) {
		writeJSON(w, userErr.Code, map[string]interface{}{"error": userErr.Message})
		return
	}

	var malformedErr *manager.MalformedOutputError
	if errors.As(err, &malformedErr) {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":       malformedErr.Message,
			"rawResponse": malformedErr.RawResponse,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
}

func decodeBody(r *http.Request, dest interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return util.NewUserError(400, "Invalid request body.")
	}
	return nil
}

// decodeChanges reads the request body as a partial update and maps present
// JSON keys onto their columns. Absent keys are left out so PATCH only
// touches what the caller sent.
func decodeChanges(r *http.Request, fields map[string]string) (map[string]interface{}, error) {
	body := map[string]interface{}{}
	if err := decodeBody(r, &body); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	for jsonKey, column := range fields {
		if value, exists := body[jsonKey]; exists {
			changes[column] = value
		}
	}

	return changes, nil
}
