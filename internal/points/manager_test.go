package points

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
general:
  language_checks:
    - name: grammar
      description: sentences are grammatical
      type: language
      priority: high
    - name: disabled check
      description: never runs
      type: format
      priority: low
      enabled: false
contract:
  legal_checks:
    - name: clause conflicts
      description: no contradictory obligations
      type: conflict
      priority: critical
      check_scope: cross
    - name: party consistency
      description: party names match everywhere
      type: consistency
      priority: critical
      check_scope: global
      required_items:
        - parties
        - term
review_point_settings:
  strategies:
    - ignored
`

func TestLoad_ScenarioMergeAndOrder(t *testing.T) {
	m, err := Load([]byte(sampleYAML))
	require.NoError(t, err)

	pts := m.ForScenario("contract")
	require.Len(t, pts, 3, "scenario points plus enabled general points")

	// Critical points sort before high ones; the disabled general
	// point is excluded.
	assert.Equal(t, PriorityCritical, pts[0].Priority)
	assert.Equal(t, PriorityCritical, pts[1].Priority)
	assert.Equal(t, "grammar", pts[2].Name)
}

func TestLoad_UnrelatedSectionsIgnored(t *testing.T) {
	m, err := Load([]byte(sampleYAML))
	require.NoError(t, err)

	for _, scenario := range []string{"general", "contract", "media", "academic"} {
		for _, p := range m.ForScenario(scenario) {
			assert.NotEqual(t, "ignored", p.Name)
		}
	}
}

func TestForScenario_UnknownFallsBackToGeneral(t *testing.T) {
	m, err := Load([]byte(sampleYAML))
	require.NoError(t, err)

	pts := m.ForScenario("unknown")
	require.Len(t, pts, 1)
	assert.Equal(t, "grammar", pts[0].Name)
}

func TestScopeFilters(t *testing.T) {
	m, err := Load([]byte(sampleYAML))
	require.NoError(t, err)

	local := m.LocalPoints("contract")
	require.Len(t, local, 1)
	assert.Equal(t, "grammar", local[0].Name)

	cross := m.CrossPoints("contract")
	require.Len(t, cross, 1)
	assert.Equal(t, "clause conflicts", cross[0].Name)
	assert.Equal(t, CheckConflict, cross[0].Type)
}

func TestNormalize_Defaults(t *testing.T) {
	m, err := Load([]byte(`
general:
  checks:
    - name: bare point
      description: nothing else set
      type: nonsense
      priority: urgent
`))
	require.NoError(t, err)

	pts := m.ForScenario("general")
	require.Len(t, pts, 1)
	p := pts[0]
	assert.Equal(t, "bare point", p.Name)
	assert.Equal(t, CheckFormat, p.Type)
	assert.Equal(t, PriorityMedium, p.Priority)
	assert.Equal(t, ScopeLocal, p.Scope)
	assert.True(t, p.IsEnabled())
}

func TestRequiredChecks(t *testing.T) {
	m := Default()
	assert.Contains(t, m.RequiredChecks("contract"), "clause conflicts")
	assert.Contains(t, m.RequiredChecks("media"), "factual accuracy")
	assert.Contains(t, m.RequiredChecks("academic"), "citation consistency")
	assert.Nil(t, m.RequiredChecks("general"))
}

func TestPrompt_GroupsByPriorityAndListsContract(t *testing.T) {
	m, err := Load([]byte(sampleYAML))
	require.NoError(t, err)

	prompt := Prompt(m.ForScenario("contract"))
	assert.Contains(t, prompt, "[CRITICAL priority]")
	assert.Contains(t, prompt, "[HIGH priority]")
	assert.Contains(t, prompt, "- clause conflicts: no contradictory obligations")
	assert.Contains(t, prompt, "required items: parties, term")
	assert.Contains(t, prompt, "overall_score")

	// Critical group renders before high.
	assert.Less(t,
		strings.Index(prompt, "[CRITICAL priority]"),
		strings.Index(prompt, "[HIGH priority]"))
}

func TestDefault_AllScenariosPresent(t *testing.T) {
	m := Default()
	stats := m.Stats()
	assert.Equal(t, []string{"academic", "contract", "general", "media"}, stats.Scenarios)
	assert.Equal(t, stats.Total, stats.Enabled)
	assert.Zero(t, stats.Disabled)

	for _, scenario := range []string{"general", "contract", "media", "academic"} {
		assert.NotEmpty(t, m.ForScenario(scenario), scenario)
	}
}
