package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mlopsdiagrams/pkg/buildinfo"
	"github.com/matzehuels/mlopsdiagrams/pkg/output"
	"github.com/matzehuels/mlopsdiagrams/pkg/pipeline"
)

// DiagramInfo describes one registered diagram in the listing.
type DiagramInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Path  string `json:"path"`
	URL   string `json:"url"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := buildinfo.Fields()
	body["status"] = "ok"
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list := make([]DiagramInfo, 0, len(s.runner.Builders))
	for _, b := range s.runner.Builders {
		list = append(list, DiagramInfo{
			Name:  b.Name,
			Title: b.Title,
			Path:  b.Path,
			URL:   "/diagrams/" + b.Name + "." + pipeline.DefaultServeFormat,
		})
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	name, format := output.Split(chi.URLParam(r, "file"))
	if format == "" {
		format = pipeline.DefaultServeFormat
	}

	opts := s.opts
	opts.Logger = s.logger

	s.mu.Lock()
	data, err := s.runner.Render(r.Context(), name, format, opts)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
