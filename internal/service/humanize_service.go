package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"raw-ai-be/internal/dto"
	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/pkg/apperror"
	"raw-ai-be/internal/pkg/logger"
	"raw-ai-be/pkg/detector"
	"raw-ai-be/pkg/llm"
)

type IHumanizeService interface {
	Humanize(ctx context.Context, auth entity.AuthContext, req *dto.HumanizeRequest) (*dto.HumanizeResponse, error)
}

type humanizeService struct {
	provider llm.LLMProvider
	detector *detector.Detector
	usage    IUsageService
	logger   logger.ILogger
	strict   bool
}

// NewHumanizeService accepts a nil provider; requests then fail with a configuration error.
func NewHumanizeService(provider llm.LLMProvider, d *detector.Detector, usage IUsageService, logger logger.ILogger, strict bool) IHumanizeService {
	return &humanizeService{
		provider: provider,
		detector: d,
		usage:    usage,
		logger:   logger,
		strict:   strict,
	}
}

var levelInstructions = map[entity.Level]string{
	entity.LevelLite: "Lightly edit the text so it reads naturally. Keep the structure and most of the wording. " +
		"Replace stiff transitions and stock phrases.",
	entity.LevelPro: "Rewrite the text so it reads like a person wrote it. Vary sentence length, use contractions " +
		"where natural, and drop filler transitions, hedging and buzzwords. Keep every fact.",
	entity.LevelUltra: "Rewrite the text thoroughly in a natural human voice. Restructure sentences and paragraphs, " +
		"vary rhythm, prefer concrete wording over generic claims, and remove every formulaic phrase. Keep every fact.",
}

func buildPrompt(level entity.Level, style string) string {
	var b strings.Builder
	b.WriteString("You rewrite text. ")
	b.WriteString(levelInstructions[level])
	if style = strings.TrimSpace(style); style != "" {
		fmt.Fprintf(&b, " Use a %s style.", style)
	}
	b.WriteString(" Reply with the rewritten text only, without commentary or quotes.")
	return b.String()
}

func (s *humanizeService) Humanize(ctx context.Context, auth entity.AuthContext, req *dto.HumanizeRequest) (*dto.HumanizeResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperror.NewValidation("Text is required")
	}
	level, ok := entity.ParseLevel(req.Level)
	if !ok {
		return nil, apperror.NewValidation("level must be one of: lite, pro, ultra")
	}
	if s.provider == nil {
		return nil, &apperror.ConfigurationError{Missing: "AI_GATEWAY_API_KEY"}
	}

	words := detector.CountWords(req.Text)
	if err := gate(ctx, s.usage, auth, words, entity.UsageFeatureHumanize, level.RequiredPlan(), s.strict); err != nil {
		return nil, err
	}

	model := s.provider.DefaultModel()
	opts := []llm.Option{llm.WithTemperature(0.8)}
	if req.Model != "" {
		model = req.Model
		opts = append(opts, llm.WithModel(req.Model))
	}

	out, err := s.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: buildPrompt(level, req.Style)},
		{Role: "user", Content: req.Text},
	}, opts...)
	if err != nil {
		s.logger.Error("HUMANIZE", "Model call failed", map[string]interface{}{
			"model": model,
			"level": string(level),
			"error": err.Error(),
		})
		var se *llm.StatusError
		if errors.As(err, &se) && se.RateLimited() {
			return nil, &apperror.GatewayError{Op: "humanize (rate limited)", Err: err}
		}
		return nil, &apperror.GatewayError{Op: "humanize", Err: err}
	}

	rewritten := cleanModelOutput(out)
	if rewritten == "" {
		return nil, &apperror.GatewayError{Op: "humanize", Err: errors.New("empty model response")}
	}

	res := &dto.HumanizeResponse{
		HumanizedText: rewritten,
		HumanScore:    s.humanScore(rewritten),
		Improvements:  s.improvements(req.Text, rewritten),
		WordsUsed:     words,
		Model:         model,
	}

	s.logger.Info("HUMANIZE", "Text humanized", map[string]interface{}{
		"words":       words,
		"level":       string(level),
		"model":       model,
		"human_score": res.HumanScore,
		"anonymous":   auth.IsAnonymous(),
	})

	if !s.strict {
		recordAfter(ctx, s.usage, s.logger, "HUMANIZE", auth, words, entity.UsageFeatureHumanize)
	}
	return res, nil
}

// humanScore is 100 minus the detector score, or 100 when the text is too short to score.
func (s *humanizeService) humanScore(text string) int {
	result, err := s.detector.Detect(text)
	if err != nil {
		return 100
	}
	return 100 - result.OverallScore
}

// improvements names the patterns present in the input that the rewrite removed.
func (s *humanizeService) improvements(original, rewritten string) []string {
	before, err := s.detector.Detect(original)
	if err != nil {
		return []string{"Adjusted phrasing for natural readability"}
	}

	remaining := map[string]bool{}
	if after, err := s.detector.Detect(rewritten); err == nil {
		for _, p := range after.Patterns {
			remaining[p.Name] = true
		}
	}

	out := []string{}
	for _, p := range before.Patterns {
		if !remaining[p.Name] {
			out = append(out, "Removed "+strings.ToLower(p.Name))
		}
	}
	if len(out) == 0 {
		out = append(out, "Adjusted phrasing for natural readability")
	}
	return out
}

func cleanModelOutput(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
