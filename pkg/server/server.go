// Package server is a thin HTTP collaborator over the synthesis engine: it
// accepts examples as JSON, runs pkg/synth, and returns the winning program
// as text, alongside a small embedded static UI and a request-count metrics
// endpoint. None of the engine's correctness depends on this package.
package server

import (
	"embed"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/rfielding/progsynth/pkg/llm"
	"github.com/rfielding/progsynth/pkg/shapedsl"
	"github.com/rfielding/progsynth/pkg/strdsl"
	"github.com/rfielding/progsynth/pkg/synth"
)

//go:embed static/*
var staticFiles embed.FS

// Server is the main HTTP server for progsynth.
type Server struct {
	llmClient *llm.Client
	llmLogger *llm.Logger
	mux       *http.ServeMux

	mu       sync.RWMutex
	counters map[string]int64
}

// New creates a Server. llmLogPath is optional; an empty string disables
// JSONL request logging for the LLM-backed endpoint.
func New(llmLogPath string) *Server {
	s := &Server{
		llmClient: llm.New(),
		counters:  make(map[string]int64),
	}
	if llmLogPath != "" {
		s.llmLogger = llm.NewLogger(llmLogPath)
	}
	return s
}

func (s *Server) incCounter(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name]++
}

func (s *Server) getCounters() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]int64, len(s.counters))
	for k, v := range s.counters {
		result[k] = v
	}
	return result
}

// Handler returns the server's http.Handler, building the mux on first call.
func (s *Server) Handler() http.Handler {
	if s.mux != nil {
		return s.mux
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/synthesize/shape", s.handleSynthesizeShape)
	mux.HandleFunc("/api/synthesize/string", s.handleSynthesizeString)
	mux.HandleFunc("/api/synthesize/string/llm", s.handleSynthesizeStringLLM)
	mux.HandleFunc("/api/metrics", s.handleMetrics)
	mux.HandleFunc("/", s.handleStatic)
	s.mux = mux
	return mux
}

// ListenAndServe starts the HTTP server on addr.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.Handler())
}

type shapeSynthesizeRequest struct {
	Examples      []shapedsl.Example `json:"examples"`
	MaxIterations int                `json:"max_iterations,omitempty"`
}

type stringSynthesizeRequest struct {
	Examples      []strdsl.Example `json:"examples"`
	MaxIterations int              `json:"max_iterations,omitempty"`
	Accumulate    bool             `json:"accumulate,omitempty"`
}

type synthesizeResponse struct {
	Program string `json:"program,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleSynthesizeShape(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.incCounter("synthesize_shape")

	var req shapeSynthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	synthesizer := shapedsl.New(req.Examples)
	got, err := synth.Synthesize[shapedsl.Expr](synthesizer, synth.Options[shapedsl.Expr]{
		MaxIterations: req.MaxIterations,
	})
	if err != nil {
		json.NewEncoder(w).Encode(synthesizeResponse{Error: err.Error()})
		return
	}
	json.NewEncoder(w).Encode(synthesizeResponse{Program: got.String()})
}

func (s *Server) handleSynthesizeString(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.incCounter("synthesize_string")

	var req stringSynthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	synthesizer := strdsl.New(req.Examples)
	got, err := synth.Synthesize[strdsl.Expr](synthesizer, synth.Options[strdsl.Expr]{
		MaxIterations: req.MaxIterations,
		Accumulate:    req.Accumulate,
	})
	if err != nil {
		json.NewEncoder(w).Encode(synthesizeResponse{Error: err.Error()})
		return
	}
	json.NewEncoder(w).Encode(synthesizeResponse{Program: got.String()})
}

// handleSynthesizeStringLLM dispatches to the LLM-backed collaborator
// instead of enumeration, per §4.6's peer-synthesizer interface.
func (s *Server) handleSynthesizeStringLLM(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.incCounter("synthesize_string_llm")

	var req stringSynthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	synthesizer := llm.NewSynthesizer(s.llmClient, s.llmLogger)
	got, err := synthesizer.Synthesize(r.Context(), req.Examples)
	if err != nil {
		json.NewEncoder(w).Encode(synthesizeResponse{Error: err.Error()})
		return
	}
	json.NewEncoder(w).Encode(synthesizeResponse{Program: got.String()})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"counters": s.getCounters(),
		"provider": s.llmClient.ProviderName(),
	})
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/" {
		path = "/static/index.html"
	} else {
		path = "/static" + path
	}
	data, err := staticFiles.ReadFile(path[1:])
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Write(data)
}
