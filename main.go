package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"draftpane/config"
	"draftpane/document"
	"draftpane/model"
	"draftpane/provider"
	"draftpane/storage"
	"draftpane/ui"
)

const (
	Version = "0.1.0"
	License = "Apache-2.0"
)

func main() {
	// Validate environment variables first
	if config.HasAnyEnvVar() && !config.HasAllEnvVars() {
		missingVar := config.GetMissingEnvVar()
		fmt.Fprintf(os.Stderr, "Missing environment variable: %s\n\n"+
			"When using environment variables, all 3 must be set:\n"+
			"  - DRAFTPANE_PROVIDER\n"+
			"  - DRAFTPANE_MODEL\n"+
			"  - DRAFTPANE_DATA_DIR\n\n"+
			"Set the missing variable(s) before launching draftpane.\n",
			missingVar)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	// Single instance per data directory
	isLocked, runningPID, err := storage.CheckInstanceLock(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to check instance lock: %v\n", err)
		os.Exit(1)
	}
	if isLocked {
		fmt.Fprintf(os.Stderr, "Another draftpane instance is already running (PID %d).\n"+
			"Close it or point DRAFTPANE_DATA_DIR at a different data directory.\n",
			runningPID)
		os.Exit(1)
	}

	if err := storage.LockInstance(cfg.DataDir()); err != nil {
		fmt.Printf("Failed to lock instance: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := storage.UnlockInstance(cfg.DataDir()); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("Warning: failed to unlock instance: %v", err)
		}
	}()

	// A document path on the command line overrides the configured one and
	// becomes the new default for the next launch
	if len(os.Args) > 1 && os.Args[1] != cfg.DocumentPath {
		cfg.DocumentPath = os.Args[1]

		if !config.HasAllEnvVars() {
			userCfg := &config.UserConfig{
				Assistant: config.AssistantConfig{
					Provider: cfg.Provider,
					Model:    cfg.Model,
					BaseURL:  cfg.BaseURL,
				},
				Document:       config.DocumentConfig{Path: cfg.DocumentPath},
				SecurityMethod: cfg.SecurityMethod,
				SSHKeyPath:     cfg.SSHKeyPath,
			}
			if err := config.SaveUserConfig(userCfg, cfg.DataDir()); err != nil && config.DebugLog != nil {
				config.DebugLog.Printf("Warning: failed to persist document path: %v", err)
			}
		}
	}
	if cfg.DocumentPath == "" {
		fmt.Fprintln(os.Stderr, "No document configured. Pass a path: draftpane <document>")
		os.Exit(1)
	}

	doc, err := document.Open(cfg.Document())
	if err != nil {
		fmt.Printf("Failed to open document %s: %v\n", cfg.Document(), err)
		os.Exit(1)
	}

	store, err := storage.OpenConversationStore(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to open conversation store: %v\n", err)
		os.Exit(1)
	}

	searchIndex, err := storage.NewSearchIndex(cfg.DataDir())
	if err != nil {
		// Search degrades to no results; chatting still works
		if config.DebugLog != nil {
			config.DebugLog.Printf("Warning: search index unavailable: %v", err)
		}
		searchIndex = nil
	}
	if searchIndex != nil {
		defer searchIndex.Close()
	}

	// A missing key leaves the assistant nil; the UI prompts for one
	var assistant model.Assistant
	if apiKey := cfg.CredentialStore.Get(cfg.Provider); apiKey != "" {
		assistant, err = provider.New(provider.Config{
			Type:    provider.MapProviderIDToType(cfg.Provider),
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			APIKey:  apiKey,
		})
		if err != nil {
			fmt.Printf("Failed to configure provider %q: %v\n", cfg.Provider, err)
			os.Exit(1)
		}
	}

	dataModel := model.NewModel(cfg, store, doc, assistant, searchIndex, Version, License)

	p := tea.NewProgram(
		ui.NewAppView(dataModel),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running draftpane: %v\n", err)
		os.Exit(1)
	}
}
