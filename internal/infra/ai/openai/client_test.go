package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/myblueprint/internal/domain/ai"
	"github.com/bryanwahyu/myblueprint/internal/domain/report"
)

func TestInterpretReturnsContent(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotModel = body.Model
		assert.Len(t, body.Messages, 2)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  All clear.  "},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", "", srv.URL)
	got, err := c.Interpret(context.Background(), []report.HealthFlag{{Variant: "X", Significance: "Benign"}})
	require.NoError(t, err)
	assert.Equal(t, "All clear.", got)
	assert.Equal(t, defaultModel, gotModel)
}

func TestInterpretMapsQuotaError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", "gpt-4o-mini", srv.URL)
	_, err := c.Interpret(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ai.ErrQuotaExceeded), "got %v", err)
}

func TestInterpretOtherErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", "gpt-4o-mini", srv.URL)
	_, err := c.Interpret(context.Background(), nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ai.ErrQuotaExceeded))
}

func TestIsReasoningModel(t *testing.T) {
	assert.True(t, isReasoningModel("o3-mini"))
	assert.True(t, isReasoningModel("gpt-5"))
	assert.False(t, isReasoningModel("gpt-4o-mini"))
}
