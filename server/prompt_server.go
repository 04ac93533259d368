package server

import (
	"net/http"
)

type namedBody struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

var namedChangeFields = map[string]string{
	"name":    "name",
	"content": "content",
}

func (s *Server) ListGenerationPrompts(w http.ResponseWriter, r *http.Request) {
	prompts, err := s.manager.ListGenerationPrompts()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prompts)
}

func (s *Server) CreateGenerationPrompt(w http.ResponseWriter, r *http.Request) {
	req := namedBody{}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	prompt, err := s.manager.CreateGenerationPrompt(req.Name, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, prompt)
}

func (s *Server) GetGenerationPrompt(w http.ResponseWriter, r *http.Request) {
	prompt, err := s.manager.GetGenerationPrompt(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prompt)
}

func (s *Server) UpdateGenerationPrompt(w http.ResponseWriter, r *http.Request) {
	changes, err := decodeChanges(r, namedChangeFields)
	if err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	if err := s.manager.UpdateGenerationPrompt(id, changes); err != nil {
		writeError(w, err)
		return
	}

	prompt, err := s.manager.GetGenerationPrompt(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prompt)
}

func (s *Server) DeleteGenerationPrompt(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.DeleteGenerationPrompt(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) ListSystemPrompts(w http.ResponseWriter, r *http.Request) {
	prompts, err := s.manager.ListSystemPrompts()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prompts)
}

func (s *Server) CreateSystemPrompt(w http.ResponseWriter, r *http.Request) {
	req := namedBody{}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	prompt, err := s.manager.CreateSystemPrompt(req.Name, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, prompt)
}

func (s *Server) GetSystemPrompt(w http.ResponseWriter, r *http.Request) {
	prompt, err := s.manager.GetSystemPrompt(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prompt)
}

func (s *Server) UpdateSystemPrompt(w http.ResponseWriter, r *http.Request) {
	changes, err := decodeChanges(r, namedChangeFields)
	if err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	if err := s.manager.UpdateSystemPrompt(id, changes); err != nil {
		writeError(w, err)
		return
	}

	prompt, err := s.manager.GetSystemPrompt(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prompt)
}

func (s *Server) DeleteSystemPrompt(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.DeleteSystemPrompt(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) ListOutputFormats(w http.ResponseWriter, r *http.Request) {
	formats, err := s.manager.ListOutputFormats()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, formats)
}

func (s *Server) CreateOutputFormat(w http.ResponseWriter, r *http.Request) {
	req := namedBody{}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	format, err := s.manager.CreateOutputFormat(req.Name, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, format)
}

func (s *Server) GetOutputFormat(w http.ResponseWriter, r *http.Request) {
	format, err := s.manager.GetOutputFormat(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, format)
}

func (s *Server) UpdateOutputFormat(w http.ResponseWriter, r *http.Request) {
	changes, err := decodeChanges(r, namedChangeFields)
	if err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	if err := s.manager.UpdateOutputFormat(id, changes); err != nil {
		writeError(w, err)
		return
	}

	format, err := s.manager.GetOutputFormat(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, format)
}

func (s *Server) DeleteOutputFormat(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.DeleteOutputFormat(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
