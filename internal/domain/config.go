package domain

// Config is the persisted YAML configuration (~/.config/exa/config.yaml).
type Config struct {
	ConfigFormatVersion string           `yaml:"version"`
	API                 APISettings      `yaml:"api"`
	Cache               CacheSettings    `yaml:"cache"`
	Research            ResearchSettings `yaml:"research"`
}

// APISettings configures the upstream endpoint and rotation defaults.
type APISettings struct {
	BaseURL                string `yaml:"base_url"`
	TimeoutSeconds         int    `yaml:"timeout_seconds"`
	DefaultCooldownSeconds int    `yaml:"default_cooldown_seconds"`
}

// CacheSettings configures the local response cache.
type CacheSettings struct {
	TTLMinutes int `yaml:"ttl_minutes"`
	MaxEntries int `yaml:"max_entries"`
}

// ResearchSettings bounds the asynchronous research flow.
type ResearchSettings struct {
	PollSeconds    int `yaml:"poll_seconds"`
	TimeoutMinutes int `yaml:"timeout_minutes"`
}
