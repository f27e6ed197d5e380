// Package analyzer orchestrates one policy analysis: pattern
// detection, concurrent collaborator calls, two-pass conflict
// detection, and final score assembly. Collaborator failures degrade
// the result to neutral defaults; an analysis never fails because an
// enrichment source did.
package analyzer

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/akorchak/privascope/internal/audit"
	"github.com/akorchak/privascope/internal/conflicts"
	"github.com/akorchak/privascope/internal/evidence"
	"github.com/akorchak/privascope/internal/heuristics"
	"github.com/akorchak/privascope/internal/model"
	"github.com/akorchak/privascope/internal/prefs"
	"github.com/akorchak/privascope/internal/scoring"
)

// Judge is the semantic-judgment collaborator contract.
type Judge interface {
	Judge(ctx context.Context, text string) (map[model.Category]model.Judgment, error)
	Overview(ctx context.Context, text string) (*model.Overview, error)
}

// MaxTextLen is the hard input ceiling in characters. Oversized input
// is rejected before any core computation.
const MaxTextLen = 120000

// conflictPenalty is applied to a category's blended score for every
// first-pass conflict targeting it. Penalties accumulate when several
// preferences hit the same category.
const conflictPenalty = -0.10

// Boundary validation errors.
var (
	ErrTextRequired = errors.New("field 'text' is required and must be non-empty")
	ErrTextTooLong  = fmt.Errorf("text too long (>%d chars)", MaxTextLen)
)

// Config assembles an Analyzer. Judge, Extractor, and Audit are
// optional; Rules and Weights fall back to the builtin tables.
type Config struct {
	Judge     Judge
	Extractor evidence.Extractor
	Rules     *heuristics.RuleSet
	Weights   scoring.Weights
	Audit     *audit.Log
	Source    string // audit tag: http, mcp, or cli
}

// Analyzer is safe for concurrent use. Rules and weights are
// read-only per request and swappable as a whole for hot reload.
type Analyzer struct {
	mu        sync.RWMutex
	rules     *heuristics.RuleSet
	weights   scoring.Weights
	judge     Judge
	extractor evidence.Extractor
	auditLog  *audit.Log
	source    string
}

// New validates the configuration and builds an analyzer. An invalid
// weight table is a deployment bug and fails construction.
func New(cfg Config) (*Analyzer, error) {
	if cfg.Rules == nil {
		cfg.Rules = heuristics.Default()
	}
	if cfg.Weights == nil {
		cfg.Weights = scoring.DefaultWeights()
	}
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}
	if cfg.Source == "" {
		cfg.Source = "cli"
	}

	return &Analyzer{
		rules:     cfg.Rules,
		weights:   cfg.Weights,
		judge:     cfg.Judge,
		extractor: cfg.Extractor,
		auditLog:  cfg.Audit,
		source:    cfg.Source,
	}, nil
}

// SetRules swaps the active rule set (hot reload).
func (a *Analyzer) SetRules(rs *heuristics.RuleSet) {
	a.mu.Lock()
	a.rules = rs
	a.mu.Unlock()
}

// SetWeights swaps the active weight table (hot reload). The table is
// validated before the swap; an invalid table is rejected.
func (a *Analyzer) SetWeights(w scoring.Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	a.mu.Lock()
	a.weights = w
	a.mu.Unlock()
	return nil
}

// Rules returns the active rule set.
func (a *Analyzer) Rules() *heuristics.RuleSet {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.rules
}

// Request is the logical analysis request shape shared by the HTTP,
// MCP, and CLI surfaces.
type Request struct {
	Text                 string
	Preferences          any
	ReturnSnippets       bool
	SnippetsTopK         int
	IncludeEvidenceProbs bool
	IncludeOverview      bool
}

// Analyze runs one full analysis. The only errors returned are input
// validation failures; collaborator failures are logged and absorbed.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*model.Analysis, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrTextRequired
	}
	if utf8.RuneCountInString(text) > MaxTextLen {
		return nil, ErrTextTooLong
	}

	a.mu.RLock()
	rules := a.rules
	weights := a.weights
	a.mu.RUnlock()

	topK := req.SnippetsTopK
	if topK <= 0 {
		topK = evidence.DefaultTopK
	}

	prefsValid, prefValues := prefs.Validate(req.Preferences)

	// Pattern detection is cheap and synchronous; the collaborators
	// are slow, independent, and fetched concurrently.
	heur := rules.Detect(text)

	var (
		wg        sync.WaitGroup
		judgments map[model.Category]model.Judgment
		overview  *model.Overview
		snippets  map[model.Category][]model.Snippet
		evScores  map[model.Category]float64
		degraded  bool
		degradeMu sync.Mutex
	)

	markDegraded := func(what string, err error) {
		log.Printf("analyzer: %s unavailable, using defaults: %v", what, err)
		degradeMu.Lock()
		degraded = true
		degradeMu.Unlock()
	}

	if a.judge != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j, err := a.judge.Judge(ctx, text)
			if err != nil {
				markDegraded("judgment service", err)
				return
			}
			judgments = j
		}()

		if req.IncludeOverview {
			wg.Add(1)
			go func() {
				defer wg.Done()
				o, err := a.judge.Overview(ctx, text)
				if err != nil {
					markDegraded("overview", err)
					return
				}
				overview = o
			}()
		}
	}

	if a.extractor != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := a.extractor.Extract(ctx, text, topK)
			if err != nil {
				markDegraded("evidence extractor", err)
				return
			}
			snippets = s

			scores, err := a.extractor.Scores(ctx, text)
			if err != nil {
				markDegraded("evidence scores", err)
				return
			}
			evScores = scores
		}()
	}

	wg.Wait()

	// Pass 1: conflicts against evidence alone, before scores exist,
	// to derive per-category penalties.
	penalties := make(map[model.Category]float64)
	for _, c := range conflicts.Detect(prefValues, nil, snippets) {
		penalties[c.Category] += conflictPenalty
	}

	result := scoring.Blend(heur, judgments, evScores, penalties, weights)

	// Pass 2: report conflicts against the post-penalty scores.
	finalScores := make(map[model.Category]float64, len(result.Categories))
	for cat, cr := range result.Categories {
		finalScores[cat] = cr.Score
	}
	finalConflicts := conflicts.Detect(prefValues, finalScores, snippets)

	result.Weights = weights
	result.Preferences = model.PreferenceState{
		Valid:  prefsValid,
		Values: prefValues,
		Schema: prefs.Describe(),
	}
	result.Personalized = model.Personalized{
		Conflicts: finalConflicts,
		Penalties: penalties,
	}
	result.Overview = overview

	if req.ReturnSnippets || req.IncludeEvidenceProbs {
		ev := &model.Evidence{}
		if req.ReturnSnippets {
			ev.Snippets = snippets
		}
		if req.IncludeEvidenceProbs {
			ev.Probs = evScores
		}
		result.Evidence = ev
	}

	a.record(text, result, degraded)

	return result, nil
}

// record appends the analysis outcome to the audit log, if one is
// configured. Audit failures are logged, never surfaced.
func (a *Analyzer) record(text string, result *model.Analysis, degraded bool) {
	if a.auditLog == nil {
		return
	}

	err := a.auditLog.Record(audit.Entry{
		RequestID:  newRequestID(),
		Source:     a.source,
		TextLength: utf8.RuneCountInString(text),
		TextSHA:    audit.HashText(text),
		TrustScore: result.TrustScore,
		RiskLevel:  result.RiskLevel,
		Conflicts:  len(result.Personalized.Conflicts),
		Degraded:   degraded,
	})
	if err != nil {
		log.Printf("analyzer: audit record failed: %v", err)
	}
}

func newRequestID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "r-unknown"
	}
	return "r-" + hex.EncodeToString(b[:])
}
