package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func openAIReply(content string) openAIResponse {
	var resp openAIResponse
	resp.Choices = make([]struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	}, 1)
	resp.Choices[0].Message.Role = "assistant"
	resp.Choices[0].Message.Content = content
	resp.Choices[0].FinishReason = "stop"
	return resp
}

func TestOpenAIProvider_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Expected path /v1/chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected bearer auth, got %s", r.Header.Get("Authorization"))
		}

		var req openAIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("Expected single user message, got %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openAIReply("test response"))
	}))
	defer server.Close()

	provider := NewOpenAIProvider(server.URL, "gpt-test", "test-key")
	result, err := provider.Generate(context.Background(), "test prompt")

	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if result != "test response" {
		t.Errorf("Expected response 'test response', got %s", result)
	}
}

func TestOpenAIProvider_Generate_NoAuthHeaderWithoutKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("Expected no auth header, got %s", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openAIReply("ok"))
	}))
	defer server.Close()

	provider := NewOpenAIProvider(server.URL, "gpt-test", "")
	if _, err := provider.Generate(context.Background(), "test prompt"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestOpenAIProvider_Generate_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider(server.URL, "gpt-test", "test-key")
	_, err := provider.Generate(context.Background(), "test prompt")

	if err == nil {
		t.Error("Expected error for empty choices")
	}
	if !strings.Contains(err.Error(), "no choices") {
		t.Errorf("Expected no-choices error, got: %v", err)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		config  ProviderConfig
		wantErr bool
	}{
		{
			name:   "ollama",
			config: ProviderConfig{Type: ProviderOllama, Model: "llama3.1", BaseURL: "http://localhost:11434"},
		},
		{
			name:   "openai",
			config: ProviderConfig{Type: ProviderOpenAI, Model: "gpt-test", BaseURL: "https://api.openai.com", APIKey: "key"},
		},
		{
			name:    "unsupported",
			config:  ProviderConfig{Type: ProviderType("bedrock")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewProvider error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && provider.GetModel() != tt.config.Model {
				t.Errorf("model = %s, want %s", provider.GetModel(), tt.config.Model)
			}
		})
	}
}
