// Package server exposes the document store over HTTP with JSON bodies
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nainya/doctree/internal/logger"
	"github.com/nainya/doctree/internal/metrics"
	"github.com/nainya/doctree/internal/store"
	"github.com/nainya/doctree/pkg/docformat"
)

// Server handles HTTP requests for the document store.
type Server struct {
	store   *store.Store
	log     *logger.Logger
	metrics *metrics.Metrics
	addr    string
}

// New creates an API server over the given store.
func New(s *store.Store, log *logger.Logger, m *metrics.Metrics, addr string) *Server {
	return &Server{store: s, log: log, metrics: m, addr: addr}
}

// Handler builds the full route table including middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /documents", s.listDocuments)
	mux.HandleFunc("POST /documents", s.saveDocument)
	mux.HandleFunc("GET /documents/{name}", s.getDocument)
	mux.HandleFunc("DELETE /documents/{name}", s.deleteDocument)

	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET /stats", s.stats)
	mux.Handle("GET /metrics", promhttp.HandlerFor(
		s.metrics.Registry(), promhttp.HandlerOpts{},
	))

	return withCORS(s.instrument(mux))
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	s.log.LogServerReady(s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

// withCORS adds CORS headers for the browser frontend
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Filename")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument wraps the mux with request logging and Prometheus metrics.
func (s *Server) instrument(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		s.metrics.HTTPRequestsInFlight.Inc()
		h.ServeHTTP(rec, r)
		s.metrics.HTTPRequestsInFlight.Dec()

		duration := time.Since(start)
		s.metrics.RecordRequest(r.Method, httpStatusLabel(rec.status), duration)
		s.log.LogRequest(r.Method, r.URL.Path, rec.status, duration)
	})
}

func httpStatusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.metrics.UpdateStoreStats(st.Documents, st.Sections)
	s.metrics.UpdateUptime()
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	infos, err := s.store.List()
	s.metrics.RecordStoreOperation("list", storeStatusLabel(err), time.Since(start))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if infos == nil {
		infos = []store.Info{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": infos})
}

// saveDocument stores the posted export. The filename comes from the
// X-Filename header when set, otherwise it is derived from the document
// title.
func (s *Server) saveDocument(w http.ResponseWriter, r *http.Request) {
	var ex docformat.Export
	if err := json.NewDecoder(r.Body).Decode(&ex); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if ex.Document.ID == "" && ex.Sections == nil {
		writeError(w, http.StatusBadRequest, docformat.ErrInvalidFormat.Error())
		return
	}

	name := strings.TrimSpace(r.Header.Get("X-Filename"))
	if name == "" {
		name = docformat.Filename(ex.Document.Title)
	}

	start := time.Now()
	err := s.store.Put(name, &ex)
	s.metrics.RecordStoreOperation("put", storeStatusLabel(err), time.Since(start))
	s.log.LogStoreOperation("put", time.Since(start), err)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.metrics.DocumentSavesTotal.Inc()
	writeJSON(w, http.StatusCreated, map[string]string{"name": name})
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	start := time.Now()
	body, err := s.store.GetRaw(name)
	s.metrics.RecordStoreOperation("get", storeStatusLabel(err), time.Since(start))
	s.log.LogStoreOperation("get", time.Since(start), err)
	if err == store.ErrNotFound {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.metrics.DocumentLoadsTotal.Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	start := time.Now()
	err := s.store.Delete(name)
	s.metrics.RecordStoreOperation("delete", storeStatusLabel(err), time.Since(start))
	s.log.LogStoreOperation("delete", time.Since(start), err)
	if err == store.ErrNotFound {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"deleted": name})
}

func storeStatusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
