package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveGateway_PresetOnly(t *testing.T) {
	cfg, err := ResolveGateway("", nil, "main")
	require.NoError(t, err)
	assert.Equal(t, "https://node.weavedrop.net", cfg.URL)
}

func TestResolveGateway_EnvOverridesPreset(t *testing.T) {
	env := map[string]string{"WEAVEDROP_GATEWAY": "http://env.example.com"}
	cfg, err := ResolveGateway("", env, "main")
	require.NoError(t, err)
	assert.Equal(t, "http://env.example.com", cfg.URL)
}

func TestResolveGateway_ExplicitOverridesAll(t *testing.T) {
	env := map[string]string{"WEAVEDROP_GATEWAY": "http://env.example.com"}
	cfg, err := ResolveGateway("http://flag.example.com", env, "main")
	require.NoError(t, err)
	assert.Equal(t, "http://flag.example.com", cfg.URL)
}

func TestResolveGateway_EmptyEnvValueIgnored(t *testing.T) {
	env := map[string]string{"WEAVEDROP_GATEWAY": ""}
	cfg, err := ResolveGateway("", env, "local")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:1984", cfg.URL)
}

func TestResolveGateway_CustomRequiresExplicit(t *testing.T) {
	_, err := ResolveGateway("", nil, "custom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explicit gateway configuration")
}

func TestResolveGateway_CustomWithExplicit(t *testing.T) {
	cfg, err := ResolveGateway("https://my.node.example.com", nil, "custom")
	require.NoError(t, err)
	assert.Equal(t, "https://my.node.example.com", cfg.URL)
}
