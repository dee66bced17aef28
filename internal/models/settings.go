package models

// BackendConfig holds the analysis backend connection settings.
type BackendConfig struct {
	Model   string `yaml:"model"`   // Ollama model name
	URL     string `yaml:"url"`     // Ollama base URL
	Timeout int    `yaml:"timeout"` // request timeout in seconds
}

// ListenerConfig holds settings for the log listener.
type ListenerConfig struct {
	PromptMarker string `yaml:"prompt_marker"` // substring that ends an interaction
	PollInterval int    `yaml:"poll_interval"` // fallback poll interval in milliseconds
}

// Settings represents global application settings.
// This corresponds to ~/.echomind/settings.yaml.
type Settings struct {
	Version  int            `yaml:"version"`
	Backend  BackendConfig  `yaml:"backend"`
	Listener ListenerConfig `yaml:"listener"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Backend: BackendConfig{
			Model:   "llama3.2",
			URL:     "http://localhost:11434",
			Timeout: 30,
		},
		Listener: ListenerConfig{
			PromptMarker: "%",
			PollInterval: 100,
		},
	}
}
