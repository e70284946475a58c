package insights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashion-dashboard/internal/config"
)

func testOpenAIConfig(baseURL string) config.OpenAIConfig {
	return config.OpenAIConfig{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		Model:       "gpt-3.5-turbo",
		MaxTokens:   1500,
		Temperature: 0.7,
	}
}

func TestOpenAICompleter_Complete(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "  Stock up on kurtas.\n"}},
			},
		})
	}))
	defer srv.Close()

	c, err := NewOpenAICompleter(testOpenAIConfig(srv.URL))
	require.NoError(t, err)

	text, err := c.Complete(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "Stock up on kurtas.", text)
	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	assert.Equal(t, 1500, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 1e-6)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, got.Messages[0].Role)
	assert.Equal(t, "hello", got.Messages[0].Content)
}

func TestOpenAICompleter_AuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
	}))
	defer srv.Close()

	c, err := NewOpenAICompleter(testOpenAIConfig(srv.URL))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, KindAuth, Classify(err))
}

func TestOpenAICompleter_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c, err := NewOpenAICompleter(testOpenAIConfig(srv.URL))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestNewCompleter_WithoutKey(t *testing.T) {
	_, err := NewOpenAICompleter(config.OpenAIConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	c := NewCompleter(config.OpenAIConfig{})
	_, err = c.Complete(context.Background(), "hello")
	assert.Equal(t, KindUnconfigured, Classify(err))
}
