package model

import "time"

// Config holds the full application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" json:"server" mapstructure:"server"`
	Session   SessionConfig   `yaml:"session" json:"session" mapstructure:"session"`
	Upload    UploadConfig    `yaml:"upload" json:"upload" mapstructure:"upload"`
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit" mapstructure:"rate_limit"`
	Synthesis SynthesisConfig `yaml:"synthesis" json:"synthesis" mapstructure:"synthesis"`
	Defaults  FitParams       `yaml:"defaults" json:"defaults" mapstructure:"defaults"`
	Output    OutputConfig    `yaml:"output" json:"output" mapstructure:"output"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Addr            string        `yaml:"addr" json:"addr" mapstructure:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// SessionConfig controls session expiry
type SessionConfig struct {
	TTL             time.Duration `yaml:"ttl" json:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" json:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// UploadConfig bounds upload payloads
type UploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes" json:"max_bytes" mapstructure:"max_bytes"`
}

// RateLimitConfig bounds upload traffic per client
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst" mapstructure:"burst"`
}

// SynthesisConfig tunes the synthesis engine
type SynthesisConfig struct {
	// SigmaCutoff bounds how far from its center, in units of sigma, a
	// line still contributes to the sampled spectrum
	SigmaCutoff float64 `yaml:"sigma_cutoff" json:"sigma_cutoff" mapstructure:"sigma_cutoff"`

	// Workers caps concurrent synthesis jobs in headless mode
	Workers int `yaml:"workers" json:"workers" mapstructure:"workers"`
}

// OutputConfig controls operator-facing output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" json:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8050",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Session: SessionConfig{
			TTL:             30 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Upload: UploadConfig{
			MaxBytes: 8_000_000,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 5,
			Burst:             10,
		},
		Synthesis: SynthesisConfig{
			SigmaCutoff: 10.0,
			Workers:     4,
		},
		Defaults: DefaultFitParams(),
	}
}
