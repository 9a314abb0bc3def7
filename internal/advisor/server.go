package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

const maxRequestBytes = 4 << 10

// errorBody is the failure payload. It still carries a displayable message
// so that naive clients can show it directly.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Server exposes a Service over HTTP.
//
// POST with a JSON Request answers 200 with a Message. Any failure answers
// with an error status and the fallback text. OPTIONS answers the CORS
// preflight for browser dashboards.
type Server struct {
	service Service
	timeout time.Duration
	logger  *log.Logger
}

// NewServer wraps service. timeout bounds each service call; 0 means none.
func NewServer(service Service, timeout time.Duration, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{service: service, timeout: timeout, logger: logger}
}

// Handler returns a mux serving the advisory endpoint at path and a
// health check at /healthz.
func (s *Server) Handler(path string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(path, s)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		h.Set("Allow", "POST, OPTIONS")
		s.fail(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	if !req.Action.Valid() {
		s.fail(w, http.StatusBadRequest, errors.New("unknown action "+string(req.Action)))
		return
	}

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	msg, err := s.service.Advise(ctx, req)
	if err != nil {
		s.logger.Error("advisory generation failed", "action", req.Action, "error", err)
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	s.logger.Info("advisory served", "action", req.Action, "score", req.Score)
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error(), Message: FallbackText})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // Client may have gone away
	json.NewEncoder(w).Encode(v)
}
