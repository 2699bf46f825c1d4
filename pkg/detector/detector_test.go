package detector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const humanText = "I grabbed coffee with my sister before work. She's been looking for a new apartment. " +
	"We talked about the rent downtown and how it's gotten silly. I'm not sure she'll find one soon. " +
	"Still, we laughed a lot and I didn't want to leave."

const aiText = "In the modern era, technology is pivotal for every business. Furthermore, it is worth noting that " +
	"organizations must delve into the multifaceted landscape of innovation. Moreover, numerous companies " +
	"seamlessly leverage cutting-edge tools to unlock the full potential of their teams. Additionally, it is " +
	"important to note that consequently various strategies significantly improve outcomes. In conclusion, " +
	"this transformation is a testament to the paramount importance of adaptation."

func TestDetectRejectsShortInput(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{name: "empty", text: "", want: ErrEmptyText},
		{name: "whitespace", text: "   \n\t", want: ErrEmptyText},
		{name: "short", text: "short text", want: ErrTextTooShort},
		{name: "29 words", text: strings.Repeat("word ", 29), want: ErrTextTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Detect(tt.text)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDetectHumanTextWithoutPatterns(t *testing.T) {
	res, err := Detect(humanText)
	require.NoError(t, err)

	assert.Empty(t, res.Patterns)
	assert.Equal(t, VerdictHuman, res.Verdict)
	assert.Less(t, res.OverallScore, 40)
	assert.Equal(t, 70, res.Confidence)
	assert.Len(t, res.SentenceAnalysis, 5)
	for _, f := range res.SentenceAnalysis {
		assert.Empty(t, f.Flags)
	}
}

func TestDetectAIText(t *testing.T) {
	res, err := Detect(aiText)
	require.NoError(t, err)

	assert.Equal(t, VerdictAI, res.Verdict)
	assert.GreaterOrEqual(t, res.OverallScore, 70)
	require.NotEmpty(t, res.Patterns)
	assert.Equal(t, SeverityHigh, res.Patterns[0].Severity)
	assert.Contains(t, res.Summary, "strong indicators of AI generation")

	names := make([]string, 0, len(res.Patterns))
	for _, p := range res.Patterns {
		names = append(names, p.Name)
	}
	assert.Contains(t, names, "Formal Transitions")
	assert.Contains(t, names, "Hedging Phrases")
	assert.Contains(t, names, noContractionName)
}

func TestDetectIsDeterministic(t *testing.T) {
	for _, text := range []string{humanText, aiText} {
		first, err := Detect(text)
		require.NoError(t, err)
		second, err := Detect(text)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestPatternsOrderedBySeverity(t *testing.T) {
	res, err := Detect(aiText)
	require.NoError(t, err)

	for i := 1; i < len(res.Patterns); i++ {
		assert.GreaterOrEqual(t, res.Patterns[i-1].Severity.rank(), res.Patterns[i].Severity.rank())
	}
}

func TestPatternDescriptionQuotesAtMostTwoExcerpts(t *testing.T) {
	text := "Furthermore we went home. Moreover we ate. Additionally we slept. " + humanText
	res, err := Detect(text)
	require.NoError(t, err)

	var formal *PatternMatch
	for i := range res.Patterns {
		if res.Patterns[i].Name == "Formal Transitions" {
			formal = &res.Patterns[i]
		}
	}
	require.NotNil(t, formal)
	assert.Contains(t, formal.Description, "(3 found)")
	assert.Contains(t, formal.Description, `"Furthermore", "Moreover"`)
	assert.NotContains(t, formal.Description, "Additionally")
}

func TestSentenceScoreMonotonicity(t *testing.T) {
	d := New()
	base := "We walked along the river and talked about nothing much."
	withPhrase := "Furthermore, we walked along the river and talked about nothing much."
	withTwo := "Furthermore, it is worth noting we walked along the river and talked about nothing much."

	a := d.scoreSentence(base)
	b := d.scoreSentence(withPhrase)
	c := d.scoreSentence(withTwo)

	assert.GreaterOrEqual(t, b.Score, a.Score)
	assert.GreaterOrEqual(t, c.Score, b.Score)
	assert.Equal(t, []string{"Formal Transitions", "Hedging Phrases"}, c.Flags)
}

func TestSentenceScoreClamped(t *testing.T) {
	d := New()
	s := strings.Repeat("Furthermore moreover additionally ", 5) + "done."
	f := d.scoreSentence(s)
	assert.Equal(t, 100, f.Score)
}

func TestLongWordPenalty(t *testing.T) {
	d := New()
	f := d.scoreSentence("Extraordinary organizational transformations necessitate comprehensive deliberation.")
	assert.Equal(t, longWordPenalty, f.Score)
	assert.Empty(t, f.Flags)
}

func TestSentenceAnalysisTruncated(t *testing.T) {
	text := strings.Repeat("Furthermore I'm going out tonight. ", 25)
	res, err := Detect(text)
	require.NoError(t, err)

	assert.Len(t, res.SentenceAnalysis, MaxSentenceFindings)
	assert.Contains(t, res.Summary, "25 sentence(s)")
}

func TestNoTerminatorIsSingleSentence(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("we're just talking here ", 8))
	res, err := Detect(text)
	require.NoError(t, err)
	assert.Len(t, res.SentenceAnalysis, 1)
	assert.Equal(t, text, res.SentenceAnalysis[0].Text)
}

func TestUniformSentenceLength(t *testing.T) {
	sentence := "we're walking slowly along the old river path while the dogs run ahead and the kids laugh at the ducks there today. "
	res, err := Detect(strings.Repeat(sentence, 3))
	require.NoError(t, err)

	var found bool
	for _, p := range res.Patterns {
		if p.Name == uniformLengthName {
			found = true
			assert.Equal(t, SeverityMedium, p.Severity)
		}
	}
	assert.True(t, found)
}

func TestVerdictBanding(t *testing.T) {
	tests := []struct {
		score int
		want  Verdict
	}{
		{0, VerdictHuman},
		{39, VerdictHuman},
		{40, VerdictMixed},
		{69, VerdictMixed},
		{70, VerdictAI},
		{100, VerdictAI},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerdictFor(tt.score), "score %d", tt.score)
	}
}

func TestBounds(t *testing.T) {
	inputs := []string{
		humanText,
		aiText,
		strings.Repeat(aiText+" ", 6),
		strings.Repeat("Furthermore moreover additionally consequently. ", 20),
	}
	for _, in := range inputs {
		res, err := Detect(in)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.OverallScore, 0)
		assert.LessOrEqual(t, res.OverallScore, 100)
		assert.GreaterOrEqual(t, res.Confidence, 70)
		assert.LessOrEqual(t, res.Confidence, 98)
		for _, f := range res.SentenceAnalysis {
			assert.GreaterOrEqual(t, f.Score, 0)
			assert.LessOrEqual(t, f.Score, 100)
		}
		assert.Equal(t, VerdictFor(res.OverallScore), res.Verdict)
	}
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, 70, confidence(50, 0))
	assert.Equal(t, 80, confidence(101, 3))
	assert.Equal(t, 90, confidence(201, 0))
	assert.Equal(t, 95, confidence(201, 4))
	assert.Equal(t, 75, confidence(30, 4))
}

func TestTypographicApostrophesCountAsContractions(t *testing.T) {
	curly := "I’m heading out now. We’re late again. It’s fine though. They’ll wait for us. " +
		"You’d like the place. I’ve been there before. Don’t worry about the rain. " +
		"She’s bringing umbrellas anyway. We’ll grab coffee after the show tonight."
	require.Greater(t, len(curly), contractionMinChars)

	straight := strings.ReplaceAll(curly, "’", "'")
	assert.Equal(t,
		len(contractionPattern.FindAllStringIndex(straight, -1)),
		len(contractionPattern.FindAllStringIndex(curly, -1)),
	)

	res, err := Detect(curly)
	require.NoError(t, err)
	for _, p := range res.Patterns {
		assert.NotEqual(t, noContractionName, p.Name)
	}
}
