package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/akorchak/privascope/internal/analyzer"
	"github.com/akorchak/privascope/internal/audit"
	"github.com/akorchak/privascope/internal/evidence"
	"github.com/akorchak/privascope/internal/heuristics"
	"github.com/akorchak/privascope/internal/judge"
	"github.com/akorchak/privascope/internal/scoring"
)

// JudgeConfig configures the semantic judgment endpoint. An empty
// APIURL disables the judge; analyses then score neutral per
// category.
type JudgeConfig struct {
	APIURL         string `yaml:"api_url"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	MaxTokens      int    `yaml:"max_tokens"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// EvidenceConfig configures the evidence extractor. An empty APIURL
// selects the built-in local extractor; DisableLocal turns evidence
// off entirely.
type EvidenceConfig struct {
	APIURL         string `yaml:"api_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	DisableLocal   bool   `yaml:"disable_local"`
}

// Config holds the full service configuration.
type Config struct {
	Listen      string         `yaml:"listen"`
	Judge       JudgeConfig    `yaml:"judge"`
	Evidence    EvidenceConfig `yaml:"evidence"`
	RulesPath   string         `yaml:"rules_path"`
	WeightsPath string         `yaml:"weights_path"`
	AuditLog    string         `yaml:"audit_log"`
}

// DefaultConfig returns the built-in configuration: local extractor,
// no judge, no audit log.
func DefaultConfig() *Config {
	return &Config{
		Listen: ":8490",
	}
}

// LoadConfig loads service configuration from a YAML file. An empty
// path or missing file returns defaults. Invalid YAML is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse server config: %w", err)
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultConfig().Listen
	}

	return cfg, nil
}

// NewAnalyzer builds an analyzer from service configuration: rule
// set, weight table, collaborator clients, and audit log. Config
// invariant violations (bad rules file, bad weights) are fatal here,
// at startup, not per request.
func NewAnalyzer(cfg *Config, source string) (*analyzer.Analyzer, error) {
	rulesCfg, err := heuristics.LoadConfig(cfg.RulesPath)
	if err != nil {
		return nil, err
	}
	rules, err := heuristics.Build(rulesCfg)
	if err != nil {
		return nil, err
	}

	weights, err := scoring.LoadWeights(cfg.WeightsPath)
	if err != nil {
		return nil, err
	}

	var j analyzer.Judge
	if cfg.Judge.APIURL != "" {
		apiKey := cfg.Judge.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("PRIVASCOPE_JUDGE_API_KEY")
		}
		j = judge.New(judge.Config{
			APIURL:    cfg.Judge.APIURL,
			APIKey:    apiKey,
			Model:     cfg.Judge.Model,
			MaxTokens: cfg.Judge.MaxTokens,
			Timeout:   time.Duration(cfg.Judge.TimeoutSeconds) * time.Second,
		})
	}

	var extractor evidence.Extractor
	switch {
	case cfg.Evidence.APIURL != "":
		extractor = evidence.NewClient(evidence.ClientConfig{
			APIURL:  cfg.Evidence.APIURL,
			Timeout: time.Duration(cfg.Evidence.TimeoutSeconds) * time.Second,
		})
	case !cfg.Evidence.DisableLocal:
		extractor = evidence.NewLocal()
	}

	var auditLog *audit.Log
	if cfg.AuditLog != "" {
		auditLog, err = audit.Open(cfg.AuditLog)
		if err != nil {
			return nil, err
		}
	}

	return analyzer.New(analyzer.Config{
		Judge:     j,
		Extractor: extractor,
		Rules:     rules,
		Weights:   weights,
		Audit:     auditLog,
		Source:    source,
	})
}
