package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type AssistantConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model,omitempty"`
	BaseURL  string `toml:"base_url,omitempty"`
}

type DocumentConfig struct {
	Path string `toml:"path"`
}

type UserConfig struct {
	Assistant      AssistantConfig `toml:"assistant"`
	Document       DocumentConfig  `toml:"document"`
	SecurityMethod string          `toml:"security_method"`
	SSHKeyPath     string          `toml:"ssh_key_path,omitempty"`
}

type Config struct {
	DataDirectory  string
	Provider       string
	Model          string
	BaseURL        string
	DocumentPath   string
	SecurityMethod string
	SSHKeyPath     string

	CredentialStore *CredentialStore
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) Document() string {
	return ExpandPath(c.DocumentPath)
}

func (c *Config) applyEnvOverrides() {
	if provider := os.Getenv("DRAFTPANE_PROVIDER"); provider != "" {
		c.Provider = provider
	}
	if model := os.Getenv("DRAFTPANE_MODEL"); model != "" {
		c.Model = model
	}
	if dataDir := os.Getenv("DRAFTPANE_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if doc := os.Getenv("DRAFTPANE_DOCUMENT"); doc != "" {
		c.DocumentPath = doc
	}
}

func CheckDebug() bool {
	debug := os.Getenv("DRAFTPANE_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - the log may contain document text
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (DRAFTPANE_DEBUG=%s) ===", os.Getenv("DRAFTPANE_DEBUG"))
}

func HasAllEnvVars() bool {
	return os.Getenv("DRAFTPANE_PROVIDER") != "" &&
		os.Getenv("DRAFTPANE_MODEL") != "" &&
		os.Getenv("DRAFTPANE_DATA_DIR") != ""
}

func HasAnyEnvVar() bool {
	return os.Getenv("DRAFTPANE_PROVIDER") != "" ||
		os.Getenv("DRAFTPANE_MODEL") != "" ||
		os.Getenv("DRAFTPANE_DATA_DIR") != ""
}

func GetMissingEnvVar() string {
	if os.Getenv("DRAFTPANE_PROVIDER") == "" {
		return "DRAFTPANE_PROVIDER"
	}
	if os.Getenv("DRAFTPANE_MODEL") == "" {
		return "DRAFTPANE_MODEL"
	}
	if os.Getenv("DRAFTPANE_DATA_DIR") == "" {
		return "DRAFTPANE_DATA_DIR"
	}
	return ""
}

// Load resolves the effective configuration from settings.toml, the user
// config in the data directory, and DRAFTPANE_* environment overrides.
func Load() (*Config, error) {
	cfg := &Config{
		DataDirectory:  "~/.local/share/draftpane",
		Provider:       "anthropic",
		DocumentPath:   "~/Documents/draft.dpd",
		SecurityMethod: string(SecurityPlainText),
	}

	settingsPath := GetSettingsFilePath()

	if FileExists(settingsPath) || !HasAllEnvVars() {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		cfg.DataDirectory = systemCfg.DataDirectory

		userCfg, err := LoadUserConfig(cfg.DataDir())
		if err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
		cfg.Provider = userCfg.Assistant.Provider
		cfg.Model = userCfg.Assistant.Model
		cfg.BaseURL = userCfg.Assistant.BaseURL
		cfg.DocumentPath = userCfg.Document.Path
		cfg.SecurityMethod = userCfg.SecurityMethod
		cfg.SSHKeyPath = userCfg.SSHKeyPath
	}

	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	sshKeyPath := ExpandPath(cfg.SSHKeyPath)
	if SecurityMethod(cfg.SecurityMethod) == SecuritySSHKey && sshKeyPath == "" {
		// No key configured: fall back to the first discoverable key in ~/.ssh
		if keys, err := FindSSHKeys(); err == nil && len(keys) > 0 {
			sshKeyPath = keys[0]
			cfg.SSHKeyPath = sshKeyPath
		}
	}

	store := NewCredentialStore(SecurityMethod(cfg.SecurityMethod), sshKeyPath)
	if err := store.Load(dataDir); err != nil {
		// Credentials are loaded lazily again when the user enters a key;
		// a broken credentials file must not prevent startup.
		if DebugLog != nil {
			DebugLog.Printf("[Config] failed to load credentials: %v", err)
		}
	}
	cfg.CredentialStore = store

	return cfg, nil
}
