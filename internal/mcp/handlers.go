package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/akorchak/privascope/internal/analyzer"
	"github.com/akorchak/privascope/internal/model"
	"github.com/akorchak/privascope/internal/prefs"
)

// AnalyzeInput defines parameters for the privascope_analyze tool.
type AnalyzeInput struct {
	Text           string          `json:"text" jsonschema:"policy text to analyze"`
	Preferences    map[string]bool `json:"preferences,omitempty" jsonschema:"user privacy preferences (key -> enabled)"`
	ReturnSnippets bool            `json:"return_snippets,omitempty" jsonschema:"include ranked evidence snippets per category"`
	TopK           int             `json:"top_k,omitempty" jsonschema:"max snippets per category"`
	Overview       bool            `json:"overview,omitempty" jsonschema:"include the judge's general overview"`
}

// AnalyzeOutput is the full analysis payload.
type AnalyzeOutput struct {
	Result *model.Analysis `json:"result"`
}

// PreferencesInput has no parameters.
type PreferencesInput struct{}

// PreferencesOutput lists the preference schema and defaults.
type PreferencesOutput struct {
	Schema   []model.PreferenceInfo `json:"schema"`
	Defaults map[string]bool        `json:"defaults"`
}

// RulesInput has no parameters.
type RulesInput struct{}

// RulesOutput lists the active detection rules.
type RulesOutput struct {
	Rules []RuleItem `json:"rules"`
}

// RuleItem describes one pattern rule.
type RuleItem struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Delta    float64 `json:"delta"`
	Flag     string  `json:"flag"`
	Kind     string  `json:"kind"`
}

func (s *Server) handleAnalyze(ctx context.Context, req *mcpsdk.CallToolRequest, input AnalyzeInput) (*mcpsdk.CallToolResult, AnalyzeOutput, error) {
	var preferences any
	if input.Preferences != nil {
		preferences = input.Preferences
	}

	result, err := s.analyzer.Analyze(ctx, analyzer.Request{
		Text:            input.Text,
		Preferences:     preferences,
		ReturnSnippets:  input.ReturnSnippets,
		SnippetsTopK:    input.TopK,
		IncludeOverview: input.Overview,
	})
	if err != nil {
		return &mcpsdk.CallToolResult{IsError: true}, AnalyzeOutput{}, err
	}

	return nil, AnalyzeOutput{Result: result}, nil
}

func (s *Server) handlePreferences(ctx context.Context, req *mcpsdk.CallToolRequest, input PreferencesInput) (*mcpsdk.CallToolResult, PreferencesOutput, error) {
	return nil, PreferencesOutput{
		Schema:   prefs.Describe(),
		Defaults: prefs.Defaults(),
	}, nil
}

func (s *Server) handleRules(ctx context.Context, req *mcpsdk.CallToolRequest, input RulesInput) (*mcpsdk.CallToolResult, RulesOutput, error) {
	rules := s.analyzer.Rules().Rules()
	out := make([]RuleItem, 0, len(rules))
	for _, rule := range rules {
		out = append(out, RuleItem{
			ID:       rule.ID,
			Category: string(rule.Category),
			Delta:    rule.Delta,
			Flag:     rule.Flag,
			Kind:     string(rule.Kind),
		})
	}
	return nil, RulesOutput{Rules: out}, nil
}
