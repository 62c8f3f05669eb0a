package sentiment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaehyun-p/solar-chat/internal/app/sentiment"
	"github.com/jaehyun-p/solar-chat/internal/domain"
)

type fakePipeline struct {
	loadErr  error
	label    string
	score    float64
	inferErr error

	loads    int
	lastText string
}

func (f *fakePipeline) Load(context.Context) error {
	f.loads++
	return f.loadErr
}

func (f *fakePipeline) Classify(_ context.Context, text string) (string, float64, error) {
	f.lastText = text
	if f.inferErr != nil {
		return "", 0, f.inferErr
	}
	return f.label, f.score, nil
}

func TestClassify_PositiveLabelMapping(t *testing.T) {
	t.Parallel()

	pipe := &fakePipeline{label: "기쁨(행복한)", score: 0.91}
	svc := sentiment.NewService(pipe)

	res, err := svc.Classify(context.Background(), "I love this!")
	require.NoError(t, err)
	assert.Equal(t, domain.LabelPositive, res.Label)
	assert.Equal(t, "기쁨(행복한)", res.RawLabel)
	assert.Greater(t, res.Score, 0.5)
	assert.Equal(t, domain.ConfidenceHigh, res.Confidence)
}

func TestClassify_LabelGroups(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want domain.SimpleLabel
	}{
		{"고마운", domain.LabelPositive},
		{"사랑하는", domain.LabelPositive},
		{"일상적인", domain.LabelNeutral},
		{"생각이 많은", domain.LabelNeutral},
		{"슬픔(우울한)", domain.LabelNegative},
		{"짜증남", domain.LabelNegative},
		{"positive", domain.LabelPositive}, // coarse labels pass through
		{"NEGATIVE", domain.LabelNegative},
		{"LABEL_7", domain.LabelUnknown},
	}

	for _, tc := range cases {
		svc := sentiment.NewService(&fakePipeline{label: tc.raw, score: 0.8})
		res, err := svc.Classify(context.Background(), "text")
		require.NoError(t, err)
		assert.Equal(t, tc.want, res.Label, "raw label %q", tc.raw)
	}
}

func TestClassify_ConfidenceBands(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score float64
		want  domain.Confidence
	}{
		{0.95, domain.ConfidenceHigh},
		{0.70, domain.ConfidenceHigh},
		{0.60, domain.ConfidenceMedium},
		{0.55, domain.ConfidenceMedium},
		{0.52, domain.ConfidenceLow},
	}

	for _, tc := range cases {
		svc := sentiment.NewService(&fakePipeline{label: "고마운", score: tc.score})
		res, err := svc.Classify(context.Background(), "text")
		require.NoError(t, err)
		assert.Equal(t, tc.want, res.Confidence, "score %v", tc.score)
	}
}

func TestClassify_EmptyInput(t *testing.T) {
	t.Parallel()

	pipe := &fakePipeline{label: "고마운", score: 0.9}
	svc := sentiment.NewService(pipe)

	_, err := svc.Classify(context.Background(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInference)
	assert.Zero(t, pipe.loads, "empty input must not trigger a load")
}

func TestClassify_LoadHappensOnce(t *testing.T) {
	t.Parallel()

	pipe := &fakePipeline{label: "고마운", score: 0.9}
	svc := sentiment.NewService(pipe)

	for i := 0; i < 3; i++ {
		_, err := svc.Classify(context.Background(), "text")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, pipe.loads)
}

func TestClassify_LoadFailure(t *testing.T) {
	t.Parallel()

	pipe := &fakePipeline{loadErr: errors.New("weights unavailable")}
	svc := sentiment.NewService(pipe)

	_, err := svc.Classify(context.Background(), "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelLoad)

	// the failed load sticks; it is not re-attempted per call
	_, err = svc.Classify(context.Background(), "text")
	assert.ErrorIs(t, err, domain.ErrModelLoad)
	assert.Equal(t, 1, pipe.loads)
}

func TestClassify_InferenceFailure(t *testing.T) {
	t.Parallel()

	pipe := &fakePipeline{inferErr: errors.New("bad input")}
	svc := sentiment.NewService(pipe)

	_, err := svc.Classify(context.Background(), "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInference)
}

func TestClassify_TruncatesLongInput(t *testing.T) {
	t.Parallel()

	pipe := &fakePipeline{label: "고마운", score: 0.9}
	svc := sentiment.NewService(pipe)

	long := make([]rune, 1000)
	for i := range long {
		long[i] = '가'
	}

	_, err := svc.Classify(context.Background(), string(long))
	require.NoError(t, err)
	assert.Len(t, []rune(pipe.lastText), 400)
}

func TestClassify_Deterministic(t *testing.T) {
	t.Parallel()

	svc := sentiment.NewService(&fakePipeline{label: "고마운", score: 0.87})

	first, err := svc.Classify(context.Background(), "고마워요!")
	require.NoError(t, err)
	second, err := svc.Classify(context.Background(), "고마워요!")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDisplay(t *testing.T) {
	t.Parallel()

	high := &domain.SentimentResult{
		Label: domain.LabelPositive, RawLabel: "고마운",
		Score: 0.912, Confidence: domain.ConfidenceHigh,
	}
	assert.Equal(t, "positive [ raw: 고마운, confidence: high, 91.2% ]", high.Display())

	low := &domain.SentimentResult{
		Label: domain.LabelNegative, RawLabel: "짜증남",
		Score: 0.51, Confidence: domain.ConfidenceLow,
	}
	assert.Equal(t, "uncertain [ raw: 짜증남, confidence: low, 51.0% ]", low.Display())
}
