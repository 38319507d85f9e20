package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/ignite/internal/domain/config"
)

func newChainIDServer(t *testing.T, chainIDHex string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "eth_chainId", req.Method)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  chainIDHex,
		})
	}))
}

func TestNetworkResolver(t *testing.T) {
	server := newChainIDServer(t, "0x7a69")
	defer server.Close()

	resolver := NewNetworkResolver(&config.IgniteConfig{
		Networks: map[string]config.NetworkConfig{
			"pinned": {URL: "http://unused.invalid", ChainID: 5, From: "0xabc"},
			"local":  {URL: server.URL},
			"broken": {},
		},
	})
	ctx := context.Background()

	assert.Equal(t, []string{"broken", "local", "pinned"}, resolver.Names())

	t.Run("pinned chain id skips rpc", func(t *testing.T) {
		network, err := resolver.Resolve(ctx, "pinned")
		require.NoError(t, err)
		assert.Equal(t, uint64(5), network.ChainID)
		assert.Equal(t, "0xabc", network.From)
		assert.Equal(t, "pinned", network.Name)
	})

	t.Run("chain id fetched from rpc", func(t *testing.T) {
		network, err := resolver.Resolve(ctx, "local")
		require.NoError(t, err)
		assert.Equal(t, uint64(31337), network.ChainID)
		assert.Equal(t, server.URL, network.RPCURL)
	})

	t.Run("unknown network", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "mainnet")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("network without url", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "broken")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has no url")
	})
}

func TestNetworkResolver_ResolveRuntime(t *testing.T) {
	var hits atomic.Int32
	inner := newChainIDServer(t, "0xaa36a7")
	defer inner.Close()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		inner.Config.Handler.ServeHTTP(w, r)
	}))
	defer server.Close()

	dir := t.TempDir()
	writeFile(t, dir, IgniteFileName, fmt.Sprintf("[networks.remote]\nurl = %q\n", server.URL))

	v := viper.New()
	v.Set("project_root", dir)
	v.Set("network", "remote")

	cfg, err := Provider(v)
	require.NoError(t, err)
	assert.Zero(t, hits.Load(), "loading the config must not reach the node")

	resolver := ProvideNetworkResolver(cfg)
	require.NoError(t, resolver.ResolveRuntime(context.Background(), cfg))
	assert.Equal(t, int32(1), hits.Load())
	require.NotNil(t, cfg.Network)
	assert.Equal(t, uint64(11155111), cfg.Network.ChainID)
	assert.Equal(t, "chain-11155111", cfg.DeploymentID)

	// Already resolved
	require.NoError(t, resolver.ResolveRuntime(context.Background(), cfg))
	assert.Equal(t, int32(1), hits.Load())
}
