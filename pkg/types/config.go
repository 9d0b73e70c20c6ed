// Package types provides configuration types for the analytics backend.
package types

import "time"

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Host           string        `json:"host" mapstructure:"host"`
	Port           int           `json:"port" mapstructure:"port"`
	WebSocketPath  string        `json:"websocketPath" mapstructure:"websocket_path"`
	ReadTimeout    time.Duration `json:"readTimeout" mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `json:"writeTimeout" mapstructure:"write_timeout"`
	EnableMetrics  bool          `json:"enableMetrics" mapstructure:"enable_metrics"`
	AllowedOrigins []string      `json:"allowedOrigins" mapstructure:"allowed_origins"`
}

// StorageConfig represents trade storage configuration
type StorageConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// CacheConfig represents snapshot cache configuration
type CacheConfig struct {
	Enabled bool          `json:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `json:"ttl" mapstructure:"ttl"`
}

// AnalyticsConfig represents engine tuning parameters
type AnalyticsConfig struct {
	HistogramBins int `json:"histogramBins" mapstructure:"histogram_bins"`
	TopSymbols    int `json:"topSymbols" mapstructure:"top_symbols"`
}

// Config is the root configuration for the analytics backend
type Config struct {
	Server    ServerConfig    `json:"server" mapstructure:"server"`
	Storage   StorageConfig   `json:"storage" mapstructure:"storage"`
	Cache     CacheConfig     `json:"cache" mapstructure:"cache"`
	Analytics AnalyticsConfig `json:"analytics" mapstructure:"analytics"`
}
