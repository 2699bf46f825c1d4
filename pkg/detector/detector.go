// Package detector scores text for stylistic markers of machine-generated writing.
//
// The model is a fixed table of weighted regular expressions plus two whole-text
// heuristics. It is deterministic and holds no mutable state, so a single
// Detector may be shared by concurrent requests.
package detector

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// MinWords is the smallest input the heuristics are meaningful for.
	MinWords = 30

	// MaxSentenceFindings caps the per-sentence payload returned to callers.
	MaxSentenceFindings = 20

	longWordAverage   = 6.0
	longWordPenalty   = 8
	maxPatternBonus   = 30
	sentenceScoreMult = 0.7

	uniformMinWords = 20.0
	uniformMaxWords = 30.0

	contractionRatioFloor = 0.1
	contractionMinChars   = 200
)

var (
	ErrEmptyText    = errors.New("text is required")
	ErrTextTooShort = fmt.Errorf("text must contain at least %d words", MinWords)
)

type Verdict string

const (
	VerdictHuman Verdict = "human"
	VerdictMixed Verdict = "mixed"
	VerdictAI    Verdict = "ai"
)

// VerdictFor maps a 0-100 score onto its band. Lower bounds are inclusive.
func VerdictFor(score int) Verdict {
	switch {
	case score >= 70:
		return VerdictAI
	case score >= 40:
		return VerdictMixed
	default:
		return VerdictHuman
	}
}

type SentenceFinding struct {
	Text  string   `json:"text"`
	Score int      `json:"score"`
	Flags []string `json:"flags"`
}

type PatternMatch struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

type Result struct {
	OverallScore     int               `json:"overallScore"`
	Verdict          Verdict           `json:"verdict"`
	Confidence       int               `json:"confidence"`
	SentenceAnalysis []SentenceFinding `json:"sentenceAnalysis"`
	Patterns         []PatternMatch    `json:"patterns"`
	Summary          string            `json:"summary"`
}

// Detector runs a rule table over text. The zero value is not usable; call New.
type Detector struct {
	rules []Rule
}

// New returns a Detector over the default rule table.
func New() *Detector {
	return &Detector{rules: Rules()}
}

// NewWithRules returns a Detector over a custom table. Used to test rules in isolation.
func NewWithRules(table []Rule) *Detector {
	out := make([]Rule, len(table))
	copy(out, table)
	return &Detector{rules: out}
}

// Detect scores text with the default table.
func Detect(text string) (*Result, error) {
	return New().Detect(text)
}

// CountWords counts whitespace-delimited words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// SplitSentences splits on terminal punctuation. Text without any terminator
// is returned as a single sentence.
func SplitSentences(text string) []string {
	raw := sentencePattern.FindAllString(text, -1)
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

func (d *Detector) Detect(text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	wordCount := CountWords(text)
	if wordCount < MinWords {
		return nil, ErrTextTooShort
	}

	sentences := SplitSentences(text)
	findings := make([]SentenceFinding, len(sentences))
	totalSentenceScore := 0
	totalSentenceWords := 0
	for i, s := range sentences {
		findings[i] = d.scoreSentence(s)
		totalSentenceScore += findings[i].Score
		totalSentenceWords += CountWords(s)
	}

	patterns := d.scanPatterns(text)

	avgSentenceWords := float64(totalSentenceWords) / float64(len(sentences))
	if avgSentenceWords >= uniformMinWords && avgSentenceWords < uniformMaxWords {
		patterns = append(patterns, PatternMatch{
			Name:        uniformLengthName,
			Description: fmt.Sprintf("Sentences average %.1f words with little variation", avgSentenceWords),
			Severity:    SeverityMedium,
		})
	}

	contractions := len(contractionPattern.FindAllStringIndex(text, -1))
	contractionRatio := float64(contractions) / float64(len(sentences))
	if contractionRatio < contractionRatioFloor && len(text) > contractionMinChars {
		patterns = append(patterns, PatternMatch{
			Name:        noContractionName,
			Description: "Text avoids contractions, typical of formal generated prose",
			Severity:    SeverityLow,
		})
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Severity.rank() > patterns[j].Severity.rank()
	})

	bonus := 0
	for _, p := range patterns {
		bonus += p.Severity.Bonus()
	}
	if bonus > maxPatternBonus {
		bonus = maxPatternBonus
	}

	mean := float64(totalSentenceScore) / float64(len(findings))
	overall := clamp(int(math.Round(sentenceScoreMult*mean+float64(bonus))), 0, 100)
	verdict := VerdictFor(overall)

	result := &Result{
		OverallScore: overall,
		Verdict:      verdict,
		Confidence:   confidence(wordCount, len(patterns)),
		Patterns:     patterns,
		Summary:      summarize(verdict, len(patterns), len(sentences)),
	}
	if len(findings) > MaxSentenceFindings {
		findings = findings[:MaxSentenceFindings]
	}
	result.SentenceAnalysis = findings
	return result, nil
}

func (d *Detector) scoreSentence(sentence string) SentenceFinding {
	score := 0
	flags := []string{}
	for _, r := range d.rules {
		if n := r.Matches(sentence); n > 0 {
			score += r.Severity.Weight() * n
			flags = append(flags, r.Name)
		}
	}
	if averageWordLength(sentence) > longWordAverage {
		score += longWordPenalty
	}
	return SentenceFinding{
		Text:  sentence,
		Score: clamp(score, 0, 100),
		Flags: flags,
	}
}

func (d *Detector) scanPatterns(text string) []PatternMatch {
	patterns := []PatternMatch{}
	for _, r := range d.rules {
		found := r.Pattern.FindAllString(text, -1)
		if len(found) == 0 {
			continue
		}
		excerpts := found
		if len(excerpts) > 2 {
			excerpts = excerpts[:2]
		}
		patterns = append(patterns, PatternMatch{
			Name:        r.Name,
			Description: fmt.Sprintf("%s (%d found): \"%s\"", r.Description, len(found), strings.Join(excerpts, "\", \"")),
			Severity:    r.Severity,
		})
	}
	return patterns
}

func averageWordLength(sentence string) float64 {
	words := strings.Fields(sentence)
	if len(words) == 0 {
		return 0
	}
	chars := 0
	for _, w := range words {
		chars += utf8.RuneCountInString(w)
	}
	return float64(chars) / float64(len(words))
}

func confidence(wordCount, patternCount int) int {
	c := 70
	if wordCount > 100 {
		c += 10
	}
	if wordCount > 200 {
		c += 10
	}
	if patternCount > 3 {
		c += 5
	}
	if c > 98 {
		c = 98
	}
	return c
}

func summarize(v Verdict, patternCount, sentenceCount int) string {
	switch v {
	case VerdictAI:
		return fmt.Sprintf("This text shows strong indicators of AI generation. We found %d AI-typical pattern(s) across %d sentence(s), including formulaic transitions and generic phrasing.", patternCount, sentenceCount)
	case VerdictMixed:
		return fmt.Sprintf("This text mixes human and AI-like characteristics. We flagged %d pattern(s) across %d sentence(s); parts of it may be AI-assisted or heavily edited.", patternCount, sentenceCount)
	default:
		return fmt.Sprintf("This text appears to be primarily human-written. Only %d AI-typical pattern(s) showed up across %d sentence(s), and the writing varies naturally.", patternCount, sentenceCount)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
