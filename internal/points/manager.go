package points

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenarios supported by the review point configuration. "general"
// points apply to every scenario.
var knownScenarios = []string{"general", "contract", "media", "academic"}

// Manager holds the loaded review points and answers scenario queries
type Manager struct {
	points    map[string]*Point
	scenarios map[string][]*Point
}

// configFile mirrors the on-disk layout: scenario sections map check
// categories to lists of points. Unrelated top-level sections (for
// example shared settings) are ignored.
type configFile map[string]map[string][]*Point

// NewManager builds a manager from already-decoded configuration
func NewManager(cfg configFile) *Manager {
	m := &Manager{
		points:    map[string]*Point{},
		scenarios: map[string][]*Point{},
	}
	for _, scenario := range knownScenarios {
		section, ok := cfg[scenario]
		if !ok {
			continue
		}
		m.scenarios[scenario] = []*Point{}

		// Category iteration is sorted for a deterministic point order.
		categories := make([]string, 0, len(section))
		for category := range section {
			categories = append(categories, category)
		}
		sort.Strings(categories)

		for _, category := range categories {
			for _, point := range section[category] {
				if point == nil || point.Name == "" {
					continue
				}
				point.normalize()
				m.points[point.Name] = point
				m.scenarios[scenario] = append(m.scenarios[scenario], point)
			}
		}
	}
	return m
}

// LoadFile reads a review points YAML file into a manager
func LoadFile(path string) (*Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading review points file: %w", err)
	}
	return Load(data)
}

// Load decodes review points YAML into a manager
func Load(data []byte) (*Manager, error) {
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding review points: %w", err)
	}
	return NewManager(cfg), nil
}

// ForScenario returns the enabled review points for a scenario:
// scenario-specific points plus the general set, deduplicated by name
// and ordered by priority.
func (m *Manager) ForScenario(scenario string) []*Point {
	seen := map[string]bool{}
	var all []*Point
	for _, p := range m.scenarios[scenario] {
		if !seen[p.Name] {
			seen[p.Name] = true
			all = append(all, p)
		}
	}
	if scenario != "general" {
		for _, p := range m.scenarios["general"] {
			if !seen[p.Name] {
				seen[p.Name] = true
				all = append(all, p)
			}
		}
	}

	enabled := all[:0]
	for _, p := range all {
		if p.IsEnabled() {
			enabled = append(enabled, p)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority.Rank() < enabled[j].Priority.Rank()
	})
	return enabled
}

// LocalPoints returns the scenario's points checked within each chunk
func (m *Manager) LocalPoints(scenario string) []*Point {
	return m.filterScope(scenario, ScopeLocal)
}

// CrossPoints returns the scenario's adjacent-chunk points
func (m *Manager) CrossPoints(scenario string) []*Point {
	return m.filterScope(scenario, ScopeCross)
}

func (m *Manager) filterScope(scenario string, scope Scope) []*Point {
	points := m.ForScenario(scenario)
	out := make([]*Point, 0, len(points))
	for _, p := range points {
		if p.Scope == scope {
			out = append(out, p)
		}
	}
	return out
}

// RequiredChecks names the checks a scenario must always run
func (m *Manager) RequiredChecks(scenario string) []string {
	switch scenario {
	case "contract":
		return []string{"legal clause completeness", "party information consistency", "clause conflicts"}
	case "media":
		return []string{"factual accuracy", "bias detection", "sensitive content"}
	case "academic":
		return []string{"structural completeness", "citation consistency", "method description clarity"}
	default:
		return nil
	}
}

// Statistics summarizes the loaded point set
type Statistics struct {
	Total      int
	Enabled    int
	Disabled   int
	ByType     map[CheckType]int
	ByPriority map[Priority]int
	Scenarios  []string
}

// Stats reports counts over the loaded review points
func (m *Manager) Stats() Statistics {
	stats := Statistics{
		ByType:     map[CheckType]int{},
		ByPriority: map[Priority]int{},
	}
	for _, p := range m.points {
		stats.Total++
		if p.IsEnabled() {
			stats.Enabled++
		} else {
			stats.Disabled++
		}
		stats.ByType[p.Type]++
		stats.ByPriority[p.Priority]++
	}
	for scenario := range m.scenarios {
		stats.Scenarios = append(stats.Scenarios, scenario)
	}
	sort.Strings(stats.Scenarios)
	return stats
}

// Prompt renders review instructions for a set of points: the points
// grouped by priority, followed by the structured output contract.
func Prompt(pts []*Point) string {
	var sb strings.Builder
	sb.WriteString("Review the text against the following checkpoints:\n")

	for _, priority := range []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow} {
		var group []*Point
		for _, p := range pts {
			if p.Priority == priority {
				group = append(group, p)
			}
		}
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n[%s priority]\n", strings.ToUpper(string(priority)))
		for _, p := range group {
			fmt.Fprintf(&sb, "- %s: %s\n", p.Name, p.Description)
			if len(p.RequiredItems) > 0 {
				fmt.Fprintf(&sb, "  required items: %s\n", strings.Join(p.RequiredItems, ", "))
			}
		}
	}

	sb.WriteString("\nReturn the result as JSON with these fields:\n")
	sb.WriteString("1. overall_score: overall score (0-100)\n")
	sb.WriteString("2. issues: list of found issues, each with:\n")
	sb.WriteString("   - type: issue type\n")
	sb.WriteString("   - severity: critical/high/medium/low\n")
	sb.WriteString("   - description: what is wrong\n")
	sb.WriteString("   - location: where it occurs\n")
	sb.WriteString("   - suggestion: how to fix it\n")
	sb.WriteString("   - confidence: 0.0-1.0\n")
	sb.WriteString("3. suggestions: improvement suggestions\n")
	sb.WriteString("4. summary: review summary\n")
	return sb.String()
}
