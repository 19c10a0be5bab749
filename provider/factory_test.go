package provider

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"draftpane/model"
)

func TestNewDispatchesByType(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantErr   bool
		wantModel string
	}{
		{
			name:      "anthropic with defaults",
			cfg:       Config{Type: ProviderTypeAnthropic, APIKey: "sk-test"},
			wantModel: "claude-sonnet-4-5-20250929",
		},
		{
			name:      "openai with explicit model",
			cfg:       Config{Type: ProviderTypeOpenAI, APIKey: "sk-test", Model: "gpt-4o"},
			wantModel: "gpt-4o",
		},
		{
			name:    "anthropic without key",
			cfg:     Config{Type: ProviderTypeAnthropic},
			wantErr: true,
		},
		{
			name:    "openai without key",
			cfg:     Config{Type: ProviderTypeOpenAI},
			wantErr: true,
		},
		{
			name:    "unknown type",
			cfg:     Config{Type: "ollama", APIKey: "sk-test"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assistant, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if got := assistant.GetModel(); got != tt.wantModel {
				t.Errorf("model: got %q, want %q", got, tt.wantModel)
			}
		})
	}
}

func TestMapProviderIDToType(t *testing.T) {
	if got := MapProviderIDToType("anthropic"); got != ProviderTypeAnthropic {
		t.Errorf("anthropic: got %q", got)
	}
	if got := MapProviderIDToType("openai"); got != ProviderTypeOpenAI {
		t.Errorf("openai: got %q", got)
	}
	// Unknown IDs pass through so the factory can report them
	if got := MapProviderIDToType("bedrock"); got != ProviderType("bedrock") {
		t.Errorf("bedrock: got %q", got)
	}
}

func TestClassifyStatus(t *testing.T) {
	base := errors.New("api error")

	tests := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, model.ErrModelQuotaExceeded},
		{http.StatusUnauthorized, model.ErrModelUnavailable},
		{http.StatusForbidden, model.ErrModelUnavailable},
		{http.StatusInternalServerError, model.ErrModelUnavailable},
		{http.StatusServiceUnavailable, model.ErrModelUnavailable},
	}

	for _, tt := range tests {
		got := classifyStatus(tt.status, base)
		if !errors.Is(got, tt.want) {
			t.Errorf("status %d: got %v, want class %v", tt.status, got, tt.want)
		}
		if !strings.Contains(got.Error(), "api error") {
			t.Errorf("status %d: original error detail lost: %v", tt.status, got)
		}
	}
}

func TestBuildUserMessage(t *testing.T) {
	got := buildUserMessage("fix the date", "Meeting on January 1")
	want := "Document content: Meeting on January 1\n\nUser request: fix the date"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
