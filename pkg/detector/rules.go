package detector

import "regexp"

// Severity ranks how strongly a rule indicates machine-written text.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Weight is the number of points a single occurrence adds to a sentence score.
func (s Severity) Weight() int {
	switch s {
	case SeverityHigh:
		return 20
	case SeverityMedium:
		return 12
	case SeverityLow:
		return 6
	default:
		return 0
	}
}

// Bonus is added once to the overall score for each distinct pattern of this severity.
func (s Severity) Bonus() int {
	switch s {
	case SeverityHigh:
		return 8
	case SeverityMedium:
		return 5
	case SeverityLow:
		return 2
	default:
		return 0
	}
}

func (s Severity) rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Rule is one entry of the detection table.
type Rule struct {
	Name        string
	Description string
	Pattern     *regexp.Regexp
	Severity    Severity
}

// Matches returns how many times the rule fires in s.
func (r Rule) Matches(s string) int {
	return len(r.Pattern.FindAllStringIndex(s, -1))
}

// The order of this table is the order flags and patterns are reported in.
var rules = []Rule{
	{
		Name:        "Formal Transitions",
		Description: "Overuse of formal transition words",
		Pattern:     regexp.MustCompile(`(?i)\b(furthermore|moreover|additionally|consequently|nevertheless|nonetheless|henceforth)\b`),
		Severity:    SeverityHigh,
	},
	{
		Name:        "Hedging Phrases",
		Description: "Stock hedging phrases",
		Pattern:     regexp.MustCompile(`(?i)\b(it is worth noting|it['’]s worth noting|it is important to note|it should be noted|it is essential to)\b`),
		Severity:    SeverityHigh,
	},
	{
		Name:        "Generic Temporal Openers",
		Description: "Generic time references",
		Pattern:     regexp.MustCompile(`(?i)\b(in today['’]s (world|society|digital age|fast-paced world|landscape)|in this day and age|in the modern era|in recent years)\b`),
		Severity:    SeverityHigh,
	},
	{
		Name:        "AI Buzzwords",
		Description: "Vocabulary common in model output",
		Pattern:     regexp.MustCompile(`(?i)\b(delve|delves|delving|tapestry|testament|multifaceted|realm|paramount|pivotal|intricate|landscape)\b`),
		Severity:    SeverityMedium,
	},
	{
		Name:        "Conclusion Markers",
		Description: "Formulaic summarizing phrases",
		Pattern:     regexp.MustCompile(`(?i)\b(in conclusion|to summarize|in summary|all in all|to sum up)\b`),
		Severity:    SeverityMedium,
	},
	{
		Name:        "Promotional Language",
		Description: "Marketing-style superlatives",
		Pattern:     regexp.MustCompile(`(?i)\b(game[- ]changer|cutting[- ]edge|revolutioni[sz](e|es|ing)|unlock the (full )?potential|seamless(ly)?|elevate your)\b`),
		Severity:    SeverityMedium,
	},
	{
		Name:        "Balanced Framing",
		Description: "Artificially balanced framing",
		Pattern:     regexp.MustCompile(`(?i)\b(on the other hand|while it is true that|not only [^.!?]*? but also)\b`),
		Severity:    SeverityMedium,
	},
	{
		Name:        "Vague Quantifiers",
		Description: "Vague quantity words",
		Pattern:     regexp.MustCompile(`(?i)\b(various|numerous|a variety of|a wide range of|a plethora of|countless)\b`),
		Severity:    SeverityLow,
	},
	{
		Name:        "Intensifier Adverbs",
		Description: "Stacked intensifying adverbs",
		Pattern:     regexp.MustCompile(`(?i)\b(significantly|effectively|crucially|undeniably|fundamentally|ultimately)\b`),
		Severity:    SeverityLow,
	},
	{
		Name:        "Enumerative Signposts",
		Description: "Rigid enumeration markers",
		Pattern:     regexp.MustCompile(`(?i)\b(firstly|secondly|thirdly|lastly|first and foremost)\b`),
		Severity:    SeverityLow,
	},
}

// Rules returns a copy of the detection table.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

const (
	uniformLengthName = "Uniform Sentence Length"
	noContractionName = "Formal Style (No Contractions)"
)

var (
	sentencePattern    = regexp.MustCompile(`[^.!?]+[.!?]+`)
	contractionPattern = regexp.MustCompile(`(?i)n['’]t|['’](s|re|ve|ll|d|m)`)
)
