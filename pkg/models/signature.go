package models

// Business pattern tags, in the order they appear in BusinessPatterns.Tags.
const (
	PatternTagAgents        = "agents"
	PatternTagRevenue       = "revenue"
	PatternTagPerformance   = "performance"
	PatternTagExitEmployees = "exit_employees"
)

// BusinessPatterns records which domain heuristics fired for a dataset.
// It is always embedded in a FileSignature, never persisted on its own.
type BusinessPatterns struct {
	HasAgents        bool     `json:"has_agents"`
	HasRevenue       bool     `json:"has_revenue"`
	HasPerformance   bool     `json:"has_performance"`
	HasExitEmployees bool     `json:"has_exit_employees"`
	Tags             []string `json:"tags"`
}

// BuildTags derives the ordered tag list from the four booleans.
func (p *BusinessPatterns) BuildTags() {
	p.Tags = make([]string, 0, 4)
	if p.HasAgents {
		p.Tags = append(p.Tags, PatternTagAgents)
	}
	if p.HasRevenue {
		p.Tags = append(p.Tags, PatternTagRevenue)
	}
	if p.HasPerformance {
		p.Tags = append(p.Tags, PatternTagPerformance)
	}
	if p.HasExitEmployees {
		p.Tags = append(p.Tags, PatternTagExitEmployees)
	}
}

// FileSignature is a compact fingerprint of a dataset used for similarity
// comparison without re-scanning raw data. Built once per dataset, never
// mutated.
type FileSignature struct {
	Columns          []string          `json:"columns"`
	ColumnTypes      map[string]string `json:"column_types"`
	RowCount         int               `json:"row_count"`
	BusinessPatterns BusinessPatterns  `json:"business_patterns"`
	ContentHash      string            `json:"content_hash"`
	StructureHash    string            `json:"structure_hash"`
}
