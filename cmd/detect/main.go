// Command detect scores a file (or stdin) with the local detector.
//
//	go run ./cmd/detect essay.txt
//	cat essay.txt | go run ./cmd/detect
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"raw-ai-be/pkg/detector"

	"github.com/fatih/color"
)

func main() {
	showSentences := flag.Bool("sentences", false, "print the per-sentence breakdown")
	flag.Parse()

	text, err := readInput(flag.Arg(0))
	if err != nil {
		color.Red("Failed to read input: %v", err)
		os.Exit(1)
	}

	res, err := detector.Detect(text)
	if err != nil {
		color.Red("Cannot analyze: %v", err)
		os.Exit(2)
	}

	verdictColor(res.Verdict)("Verdict: %s (score %d, confidence %d%%)", res.Verdict, res.OverallScore, res.Confidence)
	fmt.Println(res.Summary)

	if len(res.Patterns) > 0 {
		color.Cyan("\nPatterns")
		for _, p := range res.Patterns {
			fmt.Printf("  [%s] %s: %s\n", p.Severity, p.Name, p.Description)
		}
	}

	if *showSentences {
		color.Cyan("\nSentences")
		for _, s := range res.SentenceAnalysis {
			verdictColor(detector.VerdictFor(s.Score))("  %3d  %s", s.Score, s.Text)
		}
	}
}

func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func verdictColor(v detector.Verdict) func(format string, a ...interface{}) {
	switch v {
	case detector.VerdictAI:
		return color.Red
	case detector.VerdictMixed:
		return color.Yellow
	default:
		return color.Green
	}
}
