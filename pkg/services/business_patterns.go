package services

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fleetlens-io/fleetlens-engine/pkg/models"
)

// PatternConfig holds the keyword tables driving business pattern detection.
// The tables ship with built-in defaults and can be overridden from a YAML
// file so new fleets can tune the vocabulary without a rebuild.
type PatternConfig struct {
	// AgentKeywords are substrings of column names that indicate agent or
	// employee data.
	AgentKeywords []string `yaml:"agent_keywords"`

	// AgentIDPattern is a regular expression matched against whole column
	// names; names that look like bare numeric identifiers count as agent
	// columns.
	AgentIDPattern string `yaml:"agent_id_pattern"`

	// RevenueKeywords are substrings of column names that indicate
	// financial data.
	RevenueKeywords []string `yaml:"revenue_keywords"`

	// PerformanceKeywords are substrings of column names that indicate
	// performance metrics.
	PerformanceKeywords []string `yaml:"performance_keywords"`

	// ExitMarker is the cell-value substring that flags departed-employee
	// records.
	ExitMarker string `yaml:"exit_marker"`
}

// DefaultPatternConfig returns the built-in keyword tables.
func DefaultPatternConfig() PatternConfig {
	return PatternConfig{
		AgentKeywords:       []string{"agent", "employee"},
		AgentIDPattern:      `^\d{7,10}$`,
		RevenueKeywords:     []string{"revenue", "irpd", "revenus", "ca", "chiffre"},
		PerformanceKeywords: []string{"performance", "rate", "taux", "%", "upsell"},
		ExitMarker:          "exit employee",
	}
}

// LoadPatternConfig reads a PatternConfig from a YAML file. Missing fields
// fall back to the defaults, so an override file only needs to list the
// tables it changes.
func LoadPatternConfig(path string) (PatternConfig, error) {
	cfg := DefaultPatternConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading pattern config: %w", err)
	}
	var override PatternConfig
	if err := yaml.Unmarshal(data, &override); err != nil {
		return cfg, fmt.Errorf("parsing pattern config: %w", err)
	}
	if len(override.AgentKeywords) > 0 {
		cfg.AgentKeywords = override.AgentKeywords
	}
	if override.AgentIDPattern != "" {
		cfg.AgentIDPattern = override.AgentIDPattern
	}
	if len(override.RevenueKeywords) > 0 {
		cfg.RevenueKeywords = override.RevenueKeywords
	}
	if len(override.PerformanceKeywords) > 0 {
		cfg.PerformanceKeywords = override.PerformanceKeywords
	}
	if override.ExitMarker != "" {
		cfg.ExitMarker = override.ExitMarker
	}
	return cfg, nil
}

// BusinessPatternDetector scans column names and cell values for
// domain-specific signals: agent identifiers, revenue figures, performance
// metrics and the departed-employee marker.
type BusinessPatternDetector struct {
	config    PatternConfig
	agentIDRe *regexp.Regexp
}

// NewBusinessPatternDetector creates a detector from the given keyword
// tables. Returns an error when the agent ID pattern does not compile.
func NewBusinessPatternDetector(cfg PatternConfig) (*BusinessPatternDetector, error) {
	re, err := regexp.Compile(cfg.AgentIDPattern)
	if err != nil {
		return nil, fmt.Errorf("compiling agent id pattern %q: %w", cfg.AgentIDPattern, err)
	}
	return &BusinessPatternDetector{config: cfg, agentIDRe: re}, nil
}

// Detect inspects the column names and the row data and returns the flag set
// with its derived tag list.
func (d *BusinessPatternDetector) Detect(columns []string, rows []map[string]any) models.BusinessPatterns {
	patterns := models.BusinessPatterns{}

	for _, col := range columns {
		name := strings.ToLower(col)
		if !patterns.HasAgents && (containsAny(name, d.config.AgentKeywords) || d.agentIDRe.MatchString(name)) {
			patterns.HasAgents = true
		}
		if !patterns.HasRevenue && containsAny(name, d.config.RevenueKeywords) {
			patterns.HasRevenue = true
		}
		if !patterns.HasPerformance && containsAny(name, d.config.PerformanceKeywords) {
			patterns.HasPerformance = true
		}
	}

	marker := strings.ToLower(d.config.ExitMarker)
scan:
	for _, row := range rows {
		for _, v := range row {
			if v == nil {
				continue
			}
			if strings.Contains(strings.ToLower(stringifyValue(v)), marker) {
				patterns.HasExitEmployees = true
				break scan
			}
		}
	}

	patterns.BuildTags()
	return patterns
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
