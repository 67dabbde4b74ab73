package config

import (
	"embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/workspace.yaml
var defaultFiles embed.FS

// WorkspaceConfig tunes the client-side dashboard tree.
type WorkspaceConfig struct {
	Drag   DragConfig   `yaml:"drag"`
	Remote RemoteConfig `yaml:"remote"`
}

// DragConfig controls the drag session controller.
type DragConfig struct {
	// ActivationDistance is how far (px) the pointer must travel before a press becomes a drag.
	ActivationDistance float64 `yaml:"activation_distance"`
	// HoverExpandDelay is how long a closed folder must be hovered before it opens.
	HoverExpandDelay time.Duration `yaml:"hover_expand_delay"`
}

// RemoteConfig controls calls to the library service.
type RemoteConfig struct {
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// ClientConfig is what the CLI needs to reach the library service.
type ClientConfig struct {
	APIURL    string
	Token     string
	Workspace *WorkspaceConfig
}

// LoadClient reads the CLI configuration from the environment.
// COGNICARD_WORKSPACE_CONFIG optionally points at a YAML file layered over the defaults.
func LoadClient() (*ClientConfig, error) {
	ws, err := LoadWorkspaceConfig(os.Getenv("COGNICARD_WORKSPACE_CONFIG"))
	if err != nil {
		return nil, err
	}
	return &ClientConfig{
		APIURL:    getEnv("COGNICARD_API_URL", "http://localhost:8080"),
		Token:     getEnv("COGNICARD_TOKEN", ""),
		Workspace: ws,
	}, nil
}

// LoadWorkspaceConfig loads the embedded defaults, then overlays overridePath if set.
func LoadWorkspaceConfig(overridePath string) (*WorkspaceConfig, error) {
	data, err := defaultFiles.ReadFile("defaults/workspace.yaml")
	if err != nil {
		return nil, fmt.Errorf("read default workspace config: %w", err)
	}

	var cfg WorkspaceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse default workspace config: %w", err)
	}

	if overridePath != "" {
		override, err := os.ReadFile(overridePath)
		if err != nil {
			return nil, fmt.Errorf("read workspace config %s: %w", overridePath, err)
		}
		// Unmarshal into the populated struct so omitted keys keep their defaults
		if err := yaml.Unmarshal(override, &cfg); err != nil {
			return nil, fmt.Errorf("parse workspace config %s: %w", overridePath, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *WorkspaceConfig) validate() error {
	if c.Drag.ActivationDistance < 0 {
		return fmt.Errorf("drag.activation_distance cannot be negative")
	}
	if c.Drag.HoverExpandDelay <= 0 {
		return fmt.Errorf("drag.hover_expand_delay must be positive")
	}
	if c.Remote.RequestTimeout <= 0 {
		return fmt.Errorf("remote.request_timeout must be positive")
	}
	return nil
}
