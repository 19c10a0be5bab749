package config

import "testing"

func TestSaveUserConfigRoundTrip(t *testing.T) {
	dataDir := t.TempDir()

	saved := &UserConfig{
		Assistant: AssistantConfig{
			Provider: "openai",
			Model:    "gpt-4o",
		},
		Document:       DocumentConfig{Path: "/tmp/notes.dpd"},
		SecurityMethod: string(SecurityPlainText),
	}

	if err := SaveUserConfig(saved, dataDir); err != nil {
		t.Fatalf("SaveUserConfig failed: %v", err)
	}

	loaded, err := LoadUserConfig(dataDir)
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}

	if loaded.Assistant.Provider != "openai" {
		t.Errorf("Provider = %q, want %q", loaded.Assistant.Provider, "openai")
	}
	if loaded.Assistant.Model != "gpt-4o" {
		t.Errorf("Model = %q, want %q", loaded.Assistant.Model, "gpt-4o")
	}
	if loaded.Document.Path != "/tmp/notes.dpd" {
		t.Errorf("Document path = %q, want %q", loaded.Document.Path, "/tmp/notes.dpd")
	}
}
