package hf_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaehyun-p/solar-chat/internal/adapters/hf"
	"github.com/jaehyun-p/solar-chat/internal/domain"
)

func TestClassify_NestedResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models/nlp04/korean_sentiment_analysis_kcelectra", r.URL.Path)

		var body struct {
			Inputs string `json:"inputs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "정말 좋아요!", body.Inputs)

		_ = json.NewEncoder(w).Encode([][]map[string]any{{
			{"label": "기쁨(행복한)", "score": 0.91},
			{"label": "고마운", "score": 0.05},
		}})
	}))
	defer srv.Close()

	pipe := hf.New("nlp04/korean_sentiment_analysis_kcelectra", hf.WithBaseURL(srv.URL))

	label, score, err := pipe.Classify(context.Background(), "정말 좋아요!")
	require.NoError(t, err)
	assert.Equal(t, "기쁨(행복한)", label)
	assert.InDelta(t, 0.91, score, 1e-9)
}

func TestClassify_FlatResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"label": "negative", "score": 0.3},
			{"label": "positive", "score": 0.7},
		})
	}))
	defer srv.Close()

	pipe := hf.New("some/model", hf.WithBaseURL(srv.URL))

	label, score, err := pipe.Classify(context.Background(), "great")
	require.NoError(t, err)
	assert.Equal(t, "positive", label)
	assert.InDelta(t, 0.7, score, 1e-9)
}

func TestClassify_SendsToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([][]map[string]any{{{"label": "positive", "score": 0.9}}})
	}))
	defer srv.Close()

	pipe := hf.New("some/model", hf.WithBaseURL(srv.URL), hf.WithToken("hf_secret"))

	_, _, err := pipe.Classify(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "Bearer hf_secret", gotAuth)
}

func TestLoad_ModelStillLoading(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Options *struct {
				WaitForModel bool `json:"wait_for_model"`
			} `json:"options"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotNil(t, body.Options)
		assert.True(t, body.Options.WaitForModel)

		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":          "Model some/model is currently loading",
			"estimated_time": 20.0,
		})
	}))
	defer srv.Close()

	pipe := hf.New("some/model", hf.WithBaseURL(srv.URL))

	err := pipe.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelLoad)
}

func TestClassify_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "inputs is required"})
	}))
	defer srv.Close()

	pipe := hf.New("some/model", hf.WithBaseURL(srv.URL))

	_, _, err := pipe.Classify(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inputs is required")
}

func TestClassify_UnexpectedShape(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected": true}`))
	}))
	defer srv.Close()

	pipe := hf.New("some/model", hf.WithBaseURL(srv.URL))

	_, _, err := pipe.Classify(context.Background(), "text")
	require.Error(t, err)
}
