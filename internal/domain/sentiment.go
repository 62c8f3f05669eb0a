package domain

import "fmt"

// SimpleLabel is the coarse sentiment bucket a fine-grained model
// label is mapped into.
type SimpleLabel string

const (
	LabelPositive SimpleLabel = "positive"
	LabelNeutral  SimpleLabel = "neutral"
	LabelNegative SimpleLabel = "negative"
	LabelUnknown  SimpleLabel = "unknown"
)

// Confidence bands the classifier score. Below the medium band the
// score is close to a coin flip and the label should be presented as
// uncertain.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// SentimentResult is the outcome of classifying one piece of text.
// RawLabel is whatever the backing model emitted; Label is the mapped
// coarse bucket. Score is in [0,1].
type SentimentResult struct {
	Label      SimpleLabel
	RawLabel   string
	Score      float64
	Confidence Confidence
}

// Display renders the result the way the chat surface shows it next
// to a message.
func (r *SentimentResult) Display() string {
	if r.Confidence == ConfidenceLow {
		return fmt.Sprintf("uncertain [ raw: %s, confidence: %s, %.1f%% ]",
			r.RawLabel, r.Confidence, r.Score*100)
	}
	return fmt.Sprintf("%s [ raw: %s, confidence: %s, %.1f%% ]",
		r.Label, r.RawLabel, r.Confidence, r.Score*100)
}
