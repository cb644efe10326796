package network

import (
	"fmt"
	"time"
)

// DefaultTimeout bounds one gateway round-trip.
const DefaultTimeout = 30 * time.Second

// GatewayConfig holds the connection parameters for a storage gateway.
type GatewayConfig struct {
	URL     string        `json:"url"`
	Timeout time.Duration `json:"timeout"`
}

// GatewayPresets contains default gateway configurations for known
// deployments. "custom" is intentionally omitted to require explicit
// configuration.
var GatewayPresets = map[string]GatewayConfig{
	"main":  {URL: "https://node.weavedrop.net"},
	"local": {URL: "http://localhost:1984"},
}

// ResolveGateway merges gateway configuration from three sources with
// decreasing priority:
//  1. Explicit value (CLI flag or config file, highest priority)
//  2. Environment variable (WEAVEDROP_GATEWAY)
//  3. Preset for the named deployment (lowest priority)
//
// For a custom deployment, explicit configuration is required -- there is
// no preset.
func ResolveGateway(explicit string, env map[string]string, preset string) (*GatewayConfig, error) {
	var result GatewayConfig

	// Layer 1: start with preset defaults if available.
	if p, ok := GatewayPresets[preset]; ok {
		result = p
	}

	// Layer 2: environment variable overrides the preset.
	if env != nil {
		if v, ok := env["WEAVEDROP_GATEWAY"]; ok && v != "" {
			result.URL = v
		}
	}

	// Layer 3: explicit value has highest priority.
	if explicit != "" {
		result.URL = explicit
	}

	if result.URL == "" {
		return nil, fmt.Errorf("network: %s requires explicit gateway configuration (set --gateway, WEAVEDROP_GATEWAY, or config file)", preset)
	}

	return &result, nil
}
