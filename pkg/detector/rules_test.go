package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRulesInIsolation(t *testing.T) {
	samples := map[string]struct {
		hit  string
		miss string
	}{
		"Formal Transitions":       {hit: "Furthermore, the plan failed.", miss: "Further down the road it failed."},
		"Hedging Phrases":          {hit: "It is worth noting that it rained.", miss: "It rained a lot."},
		"Generic Temporal Openers": {hit: "In today's world, people rush.", miss: "Today people rush."},
		"AI Buzzwords":             {hit: "Let us delve into it.", miss: "Let us dig into it."},
		"Conclusion Markers":       {hit: "In conclusion, it works.", miss: "It works."},
		"Promotional Language":     {hit: "A real game-changer for teams.", miss: "A real change for teams."},
		"Balanced Framing":         {hit: "It is not only fast but also cheap.", miss: "It is fast and cheap."},
		"Vague Quantifiers":        {hit: "There are numerous options.", miss: "There are three options."},
		"Intensifier Adverbs":      {hit: "This significantly helps.", miss: "This helps."},
		"Enumerative Signposts":    {hit: "Firstly, open the box.", miss: "First, open the box."},
	}

	table := Rules()
	assert.Len(t, table, len(samples))

	for _, r := range table {
		r := r
		t.Run(r.Name, func(t *testing.T) {
			s, ok := samples[r.Name]
			if !assert.True(t, ok, "no sample for rule") {
				return
			}
			assert.Equal(t, 1, r.Matches(s.hit))
			assert.Zero(t, r.Matches(s.miss))
			assert.Positive(t, r.Severity.Weight())
		})
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	table := Rules()
	table[0].Name = "changed"
	assert.Equal(t, "Formal Transitions", Rules()[0].Name)
}

func TestNewWithRules(t *testing.T) {
	only := Rules()[:1]
	d := NewWithRules(only)

	f := d.scoreSentence("Moreover, it is worth noting the sky is blue.")
	assert.Equal(t, 20, f.Score)
	assert.Equal(t, []string{"Formal Transitions"}, f.Flags)
}

func TestSeverityWeights(t *testing.T) {
	assert.Equal(t, 20, SeverityHigh.Weight())
	assert.Equal(t, 12, SeverityMedium.Weight())
	assert.Equal(t, 6, SeverityLow.Weight())
	assert.Equal(t, 8, SeverityHigh.Bonus())
	assert.Equal(t, 5, SeverityMedium.Bonus())
	assert.Equal(t, 2, SeverityLow.Bonus())
}
