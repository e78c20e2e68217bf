package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-interview-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_Chat(t *testing.T) {
	var received ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(ollamaChatResponse{
			Model:           "llama3",
			Message:         ollamaMessage{Role: "assistant", Content: "I manage a small team."},
			Done:            true,
			PromptEvalCount: 12,
			EvalCount:       6,
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	res, err := p.Chat(context.Background(),
		[]llm.Message{{Role: llm.RoleUser, Content: "What do you do?"}},
		llm.WithSystemPrompt("You are Dana"),
	)
	require.NoError(t, err)

	assert.Equal(t, "I manage a small team.", res.Text)
	assert.Equal(t, 18, res.TokenCount)
	require.Len(t, received.Messages, 2)
	assert.Equal(t, llm.RoleSystem, received.Messages[0].Role)
}

func TestOllamaProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "missing").Generate(context.Background(), "hi")
	assert.Error(t, err)
}
