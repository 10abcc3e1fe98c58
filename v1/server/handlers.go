package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Aleph-Alpha/vectorbroker/v1/broker"
)

const (
	errInvalidInput = "Invalid request"
	errQueryFailed  = "An error occurred while processing your query"
	errNamespaces   = "An error occurred while listing namespaces"
	errInternal     = "Internal server error"
)

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("POST /query", s.handleQuery)
	mux.HandleFunc("GET /namespaces", s.handleNamespaces)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.broker.Status()
	serverURL := s.diag.ServerURL
	if serverURL == "" {
		serverURL = status.Host
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:            "ok",
		Message:           healthMessage,
		PineconeConnected: status.ClientReady,
		IndexConnected:    status.IndexReady,
		Config: healthConfig{
			IndexName:         s.diag.IndexName,
			ServerURL:         serverURL,
			Backend:           s.diag.Backend,
			DefaultNamespace:  s.diag.DefaultNamespace,
			Settings:          s.diag.Settings,
			EnvironmentPrefix: s.diag.EnvironmentPrefix,
		},
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, &broker.InvalidInputError{Reason: "request body too large"})
			return
		}
		s.writeError(w, r, &broker.InvalidInputError{Reason: "could not read request body"})
		return
	}

	q, err := s.normalizer.Normalize(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.broker.Run(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.IncrementRequests("ok")
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleNamespaces(w http.ResponseWriter, r *http.Request) {
	stats, err := s.broker.Namespaces(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make(map[string]namespaceStats, len(stats))
	for ns, st := range stats {
		out[ns] = namespaceStats{VectorCount: st.VectorCount}
	}
	s.metrics.IncrementRequests("ok")
	writeJSON(w, http.StatusOK, out)
}

// writeError classifies err and writes the JSON error body. Invalid input
// echoes what was received; upstream failures name the stage.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := broker.Classify(err)
	s.metrics.IncrementRequests(kind)

	if ie, ok := broker.AsInvalidInput(err); ok {
		s.log.WarnWithContext(r.Context(), "rejected request", err, map[string]interface{}{"path": r.URL.Path})
		writeJSON(w, status, errorResponse{
			Error:        errInvalidInput + ": " + ie.Reason,
			ReceivedBody: ie.Body,
		})
		return
	}

	s.log.ErrorWithContext(r.Context(), "request failed", err, map[string]interface{}{
		"path":   r.URL.Path,
		"status": status,
		"kind":   kind,
	})

	if kind == broker.KindInternal {
		writeJSON(w, status, errorResponse{Error: errInternal, Details: err.Error()})
		return
	}

	msg := errQueryFailed
	if r.URL.Path == "/namespaces" {
		msg = errNamespaces
	}
	writeJSON(w, status, errorResponse{
		Error:   msg,
		Details: err.Error(),
		Stage:   broker.StageOf(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
