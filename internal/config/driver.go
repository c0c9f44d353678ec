package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/ldmrs/internal/lidar"
	"github.com/banshee-data/ldmrs/internal/lidar/l1packets/network"
	"github.com/banshee-data/ldmrs/internal/lidar/l1packets/parse"
)

// DefaultConfigPath is the path to the sample driver configuration.
const DefaultConfigPath = "config/ldmrs.defaults.json"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// DriverConfig is the startup configuration of the acquisition command.
// All fields are optional; the Get* accessors supply the factory defaults
// for anything left out of the JSON.
type DriverConfig struct {
	// Device endpoint
	Address        *string `json:"address,omitempty"`
	Port           *int    `json:"port,omitempty"`
	ConnectTimeout *string `json:"connect_timeout,omitempty"` // duration string like "3s"

	// Decoding
	LayerElevationsDeg []float64 `json:"layer_elevations_deg,omitempty"` // bottom to top
	MaxBodySize        *int      `json:"max_body_size,omitempty"`
	StrictBounds       *bool     `json:"strict_bounds,omitempty"`

	// Raw frame mirroring (disabled when forward_port is 0)
	ForwardAddress *string `json:"forward_address,omitempty"`
	ForwardPort    *int    `json:"forward_port,omitempty"`

	// Stats
	LogInterval *string `json:"log_interval,omitempty"`
}

// EmptyDriverConfig returns a DriverConfig with every field unset.
func EmptyDriverConfig() *DriverConfig {
	return &DriverConfig{}
}

// LoadDriverConfig loads a DriverConfig from a JSON file. The file must
// have a .json extension and be at most 1MB.
func LoadDriverConfig(path string) (*DriverConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyDriverConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *DriverConfig) Validate() error {
	if c.Address != nil && *c.Address == "" {
		return fmt.Errorf("address must not be empty")
	}
	if c.Port != nil && (*c.Port < 1 || *c.Port > 65535) {
		return fmt.Errorf("port must be between 1 and 65535, got %d", *c.Port)
	}
	if err := validDuration("connect_timeout", c.ConnectTimeout); err != nil {
		return err
	}
	if err := validDuration("log_interval", c.LogInterval); err != nil {
		return err
	}
	if c.LayerElevationsDeg != nil {
		if len(c.LayerElevationsDeg) != lidar.NumLayers {
			return fmt.Errorf("layer_elevations_deg must have %d entries, got %d",
				lidar.NumLayers, len(c.LayerElevationsDeg))
		}
		for i, e := range c.LayerElevationsDeg {
			if e < -90 || e > 90 {
				return fmt.Errorf("layer_elevations_deg[%d] out of range: %f", i, e)
			}
		}
	}
	if c.MaxBodySize != nil && *c.MaxBodySize < parse.ScanPrefixSize {
		return fmt.Errorf("max_body_size must be at least %d, got %d", parse.ScanPrefixSize, *c.MaxBodySize)
	}
	if c.ForwardPort != nil && (*c.ForwardPort < 0 || *c.ForwardPort > 65535) {
		return fmt.Errorf("forward_port must be between 0 and 65535, got %d", *c.ForwardPort)
	}
	return nil
}

func validDuration(name string, v *string) error {
	if v == nil || *v == "" {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return fmt.Errorf("invalid %s '%s': %w", name, *v, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %s", name, d)
	}
	return nil
}

// GetAddress returns the device address or the factory default.
func (c *DriverConfig) GetAddress() string {
	if c.Address == nil {
		return network.DefaultAddress
	}
	return *c.Address
}

// GetPort returns the device port or the factory default.
func (c *DriverConfig) GetPort() int {
	if c.Port == nil {
		return network.DefaultPort
	}
	return *c.Port
}

// GetConnectTimeout returns the connect bound, 3s by default.
func (c *DriverConfig) GetConnectTimeout() time.Duration {
	return durationOr(c.ConnectTimeout, network.DefaultConnectTimeout)
}

// GetLayerElevationsDeg returns the per-layer elevations in degrees.
func (c *DriverConfig) GetLayerElevationsDeg() [lidar.NumLayers]float64 {
	if len(c.LayerElevationsDeg) != lidar.NumLayers {
		return lidar.DefaultLayerElevationsDeg
	}
	var out [lidar.NumLayers]float64
	copy(out[:], c.LayerElevationsDeg)
	return out
}

// GetMaxBodySize returns the body buffer capacity in bytes.
func (c *DriverConfig) GetMaxBodySize() int {
	if c.MaxBodySize == nil {
		return parse.MaxBodySize
	}
	return *c.MaxBodySize
}

// GetStrictBounds returns the strict_bounds value or the default.
func (c *DriverConfig) GetStrictBounds() bool {
	if c.StrictBounds == nil {
		return true
	}
	return *c.StrictBounds
}

// GetForwardAddress returns the mirror destination host.
func (c *DriverConfig) GetForwardAddress() string {
	if c.ForwardAddress == nil || *c.ForwardAddress == "" {
		return "localhost"
	}
	return *c.ForwardAddress
}

// GetForwardPort returns the mirror destination port, 0 when disabled.
func (c *DriverConfig) GetForwardPort() int {
	if c.ForwardPort == nil {
		return 0
	}
	return *c.ForwardPort
}

// GetLogInterval returns the stats logging period, 10s by default.
func (c *DriverConfig) GetLogInterval() time.Duration {
	return durationOr(c.LogInterval, 10*time.Second)
}

func durationOr(v *string, def time.Duration) time.Duration {
	if v == nil || *v == "" {
		return def
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return def
	}
	return d
}
