// Package hf implements the sentiment pipeline on the HuggingFace
// Inference API.
package hf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jaehyun-p/solar-chat/internal/domain"
)

// Pipeline is a remote text-classification pipeline. Load performs a
// warmup call with wait_for_model so the hosted weights are resident
// before the first real classification.
type Pipeline struct {
	baseURL string
	model   string
	token   string
	hc      *http.Client
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBaseURL overrides the inference API base URL.
func WithBaseURL(base string) Option {
	return func(p *Pipeline) { p.baseURL = strings.TrimRight(base, "/") }
}

// WithToken sets the API token. Anonymous calls work for public
// models but are rate-limited harder.
func WithToken(token string) Option {
	return func(p *Pipeline) { p.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(p *Pipeline) { p.hc = hc }
}

func New(model string, opts ...Option) *Pipeline {
	p := &Pipeline{
		baseURL: "https://api-inference.huggingface.co",
		model:   model,
		hc:      &http.Client{Timeout: 60 * time.Second},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Wire types for the inference call.

type inferenceRequest struct {
	Inputs  string            `json:"inputs"`
	Options *inferenceOptions `json:"options,omitempty"`
}

type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type inferenceError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// Load warms the model up. The API answers 503 with an estimated_time
// payload while weights are loading; wait_for_model makes the call
// block server-side until the model is ready, so a failure here means
// the pipeline genuinely cannot be initialized.
func (p *Pipeline) Load(ctx context.Context) error {
	_, _, err := p.infer(ctx, "ping", true)
	if err != nil {
		return fmt.Errorf("warming up %s: %w", p.model, err)
	}
	return nil
}

// Classify implements the inference half of domain.SentimentPipeline.
// Returns the top-scoring label.
func (p *Pipeline) Classify(ctx context.Context, text string) (string, float64, error) {
	return p.infer(ctx, text, false)
}

func (p *Pipeline) infer(ctx context.Context, text string, waitForModel bool) (string, float64, error) {
	reqBody := inferenceRequest{Inputs: text}
	if waitForModel {
		reqBody.Options = &inferenceOptions{WaitForModel: true}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", 0, fmt.Errorf("encoding request: %w", err)
	}

	url := p.baseURL + "/models/" + p.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	res, err := p.hc.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("hf inference: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return "", 0, fmt.Errorf("hf inference: reading response: %w", err)
	}

	if res.StatusCode == http.StatusServiceUnavailable {
		var ie inferenceError
		_ = json.Unmarshal(data, &ie)
		if ie.EstimatedTime > 0 {
			return "", 0, fmt.Errorf("%w: model %s still loading (estimated %.0fs)",
				domain.ErrModelLoad, p.model, ie.EstimatedTime)
		}
		return "", 0, fmt.Errorf("hf inference: status 503: %s", ie.Error)
	}

	if res.StatusCode != http.StatusOK {
		var ie inferenceError
		_ = json.Unmarshal(data, &ie)
		if ie.Error != "" {
			return "", 0, fmt.Errorf("hf inference: status %d: %s", res.StatusCode, ie.Error)
		}
		return "", 0, fmt.Errorf("hf inference: status %d", res.StatusCode)
	}

	return parseTop(data)
}

// parseTop extracts the highest-scoring candidate. Text-classification
// responses come nested ([[{label,score},...]]); some deployments
// return the flat form.
func parseTop(data []byte) (string, float64, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(data, &nested); err == nil && len(nested) > 0 {
		return top(nested[0])
	}

	var flat []labelScore
	if err := json.Unmarshal(data, &flat); err == nil {
		return top(flat)
	}

	return "", 0, fmt.Errorf("hf inference: unexpected response shape: %s", truncate(data, 120))
}

func top(candidates []labelScore) (string, float64, error) {
	if len(candidates) == 0 {
		return "", 0, fmt.Errorf("hf inference: empty candidate list")
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best.Label, best.Score, nil
}

func truncate(data []byte, n int) string {
	s := string(data)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
