package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, IgniteFileName, `
[paths]
deployments = "deployments"

[networks.devnet]
url = "http://127.0.0.1:9545"
chain_id = 1337
`)

	t.Run("resolves paths and records network", func(t *testing.T) {
		v := viper.New()
		v.Set("project_root", dir)
		v.Set("network", "devnet")
		v.Set("timeout", "30s")
		v.Set("parameters", "params.json")
		v.Set("dry_run", true)

		cfg, err := Provider(v)
		require.NoError(t, err)

		assert.Equal(t, dir, cfg.ProjectRoot)
		assert.Equal(t, filepath.Join(dir, "artifacts"), cfg.ArtifactsDir)
		assert.Equal(t, filepath.Join(dir, "deployments"), cfg.DeploymentsDir)
		assert.Equal(t, filepath.Join(dir, "params.json"), cfg.ParametersFile)
		assert.True(t, cfg.DryRun)
		assert.Equal(t, "30s", cfg.Timeout.String())

		assert.Equal(t, "devnet", cfg.NetworkName)
		assert.Nil(t, cfg.Network)
		assert.Empty(t, cfg.DeploymentID)

		require.NoError(t, ProvideNetworkResolver(cfg).ResolveRuntime(context.Background(), cfg))
		require.NotNil(t, cfg.Network)
		assert.Equal(t, uint64(1337), cfg.Network.ChainID)
		assert.Equal(t, "chain-1337", cfg.DeploymentID)
	})

	t.Run("explicit deployment id wins", func(t *testing.T) {
		v := viper.New()
		v.Set("project_root", dir)
		v.Set("network", "devnet")
		v.Set("deployment_id", "staging")

		cfg, err := Provider(v)
		require.NoError(t, err)
		require.NoError(t, ProvideNetworkResolver(cfg).ResolveRuntime(context.Background(), cfg))
		assert.Equal(t, "staging", cfg.DeploymentID)
	})

	t.Run("no network", func(t *testing.T) {
		v := viper.New()
		v.Set("project_root", dir)

		cfg, err := Provider(v)
		require.NoError(t, err)
		require.NoError(t, ProvideNetworkResolver(cfg).ResolveRuntime(context.Background(), cfg))
		assert.Nil(t, cfg.Network)
		assert.Empty(t, cfg.DeploymentID)
	})

	t.Run("unknown network fails on resolve", func(t *testing.T) {
		v := viper.New()
		v.Set("project_root", dir)
		v.Set("network", "nope")

		cfg, err := Provider(v)
		require.NoError(t, err)
		err = ProvideNetworkResolver(cfg).ResolveRuntime(context.Background(), cfg)
		assert.ErrorContains(t, err, "failed to resolve network nope")
		assert.Nil(t, cfg.Network)
	})
}

func TestSetupViper(t *testing.T) {
	dir := t.TempDir()

	cmd := &cobra.Command{Use: "deploy"}
	cmd.Flags().Bool("dry-run", false, "")
	cmd.Flags().String("deployment-id", "", "")
	require.NoError(t, cmd.Flags().Parse([]string{"--dry-run", "--deployment-id", "staging"}))

	v := SetupViper(dir, cmd)
	assert.Equal(t, dir, v.GetString("project_root"))
	assert.Equal(t, "localhost", v.GetString("network"))
	assert.True(t, v.GetBool("dry_run"))
	assert.Equal(t, "staging", v.GetString("deployment_id"))

	cfg, err := Provider(v)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.NetworkName)
	require.NoError(t, ProvideNetworkResolver(cfg).ResolveRuntime(context.Background(), cfg))
	require.NotNil(t, cfg.Network)
	assert.Equal(t, uint64(31337), cfg.Network.ChainID)
	assert.Equal(t, "staging", cfg.DeploymentID)
	assert.True(t, cfg.DryRun)
}
