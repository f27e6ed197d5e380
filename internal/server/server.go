// Package server exposes the analyzer over a JSON HTTP API and hot
// reloads the rule and weight tables when their files change.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/akorchak/privascope/internal/analyzer"
	"github.com/akorchak/privascope/internal/heuristics"
	"github.com/akorchak/privascope/internal/prefs"
	"github.com/akorchak/privascope/internal/scoring"
	"github.com/akorchak/privascope/internal/version"
)

// Server is the HTTP front of the analyzer.
type Server struct {
	cfg      *Config
	analyzer *analyzer.Analyzer
	httpSrv  *http.Server
}

// New builds the server and its analyzer from configuration.
func New(cfg *Config) (*Server, error) {
	a, err := NewAnalyzer(cfg, "http")
	if err != nil {
		return nil, fmt.Errorf("failed to build analyzer: %w", err)
	}

	s := &Server{cfg: cfg, analyzer: a}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/analyze", s.handleAnalyze)
	mux.HandleFunc("/v1/health", s.handleHealth)
	mux.HandleFunc("/v1/preferences", s.handlePreferences)
	mux.HandleFunc("/v1/rules", s.handleRules)

	s.httpSrv = &http.Server{Addr: cfg.Listen, Handler: mux}
	return s, nil
}

// Handler returns the HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// ListenAndServe blocks until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// ReloadPolicy re-reads the rules and weights files and swaps them
// into the running analyzer. Called by the file watcher; a broken
// file leaves the previous tables active.
func (s *Server) ReloadPolicy() error {
	rulesCfg, err := heuristics.LoadConfig(s.cfg.RulesPath)
	if err != nil {
		return err
	}
	rules, err := heuristics.Build(rulesCfg)
	if err != nil {
		return err
	}

	weights, err := scoring.LoadWeights(s.cfg.WeightsPath)
	if err != nil {
		return err
	}

	s.analyzer.SetRules(rules)
	return s.analyzer.SetWeights(weights)
}

// WatchPaths returns the config files the reloader should watch.
func (s *Server) WatchPaths() []string {
	return []string{s.cfg.RulesPath, s.cfg.WeightsPath}
}

type analyzeRequest struct {
	Text                 string `json:"text"`
	Preferences          any    `json:"preferences"`
	ReturnSnippets       bool   `json:"return_snippets"`
	SnippetsTopK         int    `json:"snippets_top_k"`
	IncludeEvidenceProbs bool   `json:"include_evidence_probs"`
	IncludeOverview      bool   `json:"include_overview"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST")
		return
	}
	if ct := r.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		writeError(w, http.StatusBadRequest, "bad_request", "Content-Type must be application/json")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), analyzer.Request{
		Text:                 req.Text,
		Preferences:          req.Preferences,
		ReturnSnippets:       req.ReturnSnippets,
		SnippetsTopK:         req.SnippetsTopK,
		IncludeEvidenceProbs: req.IncludeEvidenceProbs,
		IncludeOverview:      req.IncludeOverview,
	})
	if err != nil {
		// Only input validation errors surface from Analyze.
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"schema":   prefs.Describe(),
		"defaults": prefs.Defaults(),
	})
}

type ruleInfo struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Delta    float64 `json:"delta"`
	Flag     string  `json:"flag"`
	Kind     string  `json:"kind"`
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}

	rules := s.analyzer.Rules().Rules()
	out := make([]ruleInfo, 0, len(rules))
	for _, rule := range rules {
		out = append(out, ruleInfo{
			ID:       rule.ID,
			Category: string(rule.Category),
			Delta:    rule.Delta,
			Flag:     rule.Flag,
			Kind:     string(rule.Kind),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": out})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": code, "message": msg})
}
