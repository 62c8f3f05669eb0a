package sentiment

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jaehyun-p/solar-chat/internal/domain"
	"github.com/jaehyun-p/solar-chat/internal/observability"
)

const (
	// The backing model caps input at 512 tokens; the original module
	// truncated at 400 characters to stay under it.
	maxInputChars = 400

	strictThreshold  = 0.70
	neutralThreshold = 0.55
)

// The kcelectra model emits eleven fine-grained Korean emotion
// labels. They collapse into three coarse buckets.
var labelGroups = map[string]domain.SimpleLabel{
	"기쁨(행복한)":     domain.LabelPositive,
	"고마운":         domain.LabelPositive,
	"설레는(기대하는)":   domain.LabelPositive,
	"사랑하는":        domain.LabelPositive,
	"즐거운(신나는)":    domain.LabelPositive,
	"일상적인":        domain.LabelNeutral,
	"생각이 많은":      domain.LabelNeutral,
	"슬픔(우울한)":     domain.LabelNegative,
	"힘듦(지침)":      domain.LabelNegative,
	"짜증남":         domain.LabelNegative,
	"걱정스러운(불안한)": domain.LabelNegative,
}

// Service wraps a raw sentiment pipeline: the pipeline is loaded once
// on first use and shared by all subsequent calls. It owns the
// fine-grained → coarse label mapping and the confidence banding.
type Service struct {
	pipeline domain.SentimentPipeline

	loadOnce sync.Once
	loadErr  error
}

func NewService(pipeline domain.SentimentPipeline) *Service {
	return &Service{pipeline: pipeline}
}

// Classify implements domain.SentimentClassifier. Deterministic for a
// fixed input and model version.
func (s *Service) Classify(ctx context.Context, text string) (*domain.SentimentResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty input", domain.ErrInference)
	}

	s.loadOnce.Do(func() {
		if err := s.pipeline.Load(ctx); err != nil {
			s.loadErr = fmt.Errorf("%w: %v", domain.ErrModelLoad, err)
		}
	})
	if s.loadErr != nil {
		return nil, s.loadErr
	}

	if runes := []rune(text); len(runes) > maxInputChars {
		text = string(runes[:maxInputChars])
	}

	rawLabel, score, err := s.pipeline.Classify(ctx, text)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("sentiment inference failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrInference, err)
	}

	return &domain.SentimentResult{
		Label:      mapLabel(rawLabel),
		RawLabel:   rawLabel,
		Score:      score,
		Confidence: band(score),
	}, nil
}

// mapLabel collapses a model label into a coarse bucket. Labels that
// already are coarse (e.g. from an English model) pass through.
func mapLabel(raw string) domain.SimpleLabel {
	if simple, ok := labelGroups[raw]; ok {
		return simple
	}
	switch strings.ToLower(raw) {
	case "positive", "pos":
		return domain.LabelPositive
	case "neutral":
		return domain.LabelNeutral
	case "negative", "neg":
		return domain.LabelNegative
	}
	return domain.LabelUnknown
}

func band(score float64) domain.Confidence {
	switch {
	case score >= strictThreshold:
		return domain.ConfidenceHigh
	case score >= neutralThreshold:
		return domain.ConfidenceMedium
	default:
		// close to 50:50, the label is not worth trusting
		return domain.ConfidenceLow
	}
}
