package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/ignite/internal/domain/config"
)

// projectMarkers are the files that identify a project root
var projectMarkers = []string{
	IgniteFileName,
	"hardhat.config.ts",
	"hardhat.config.js",
	"hardhat.config.cjs",
	"hardhat.config.mjs",
}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	igniteConfig, err := loadIgniteConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load ignite config: %w", err)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		ArtifactsDir:   resolvePath(projectRoot, igniteConfig.Paths.Artifacts),
		DeploymentsDir: resolvePath(projectRoot, igniteConfig.Paths.Deployments),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		DeploymentID:   v.GetString("deployment_id"),
		ParametersFile: v.GetString("parameters"),
		DryRun:         v.GetBool("dry_run"),
		Reset:          v.GetBool("reset"),
		IgniteConfig:   igniteConfig,
	}

	if cfg.ParametersFile != "" {
		cfg.ParametersFile = resolvePath(projectRoot, cfg.ParametersFile)
	}

	// The network is only recorded here; commands that talk to a chain call
	// NetworkResolver.ResolveRuntime
	cfg.NetworkName = v.GetString("network")

	return cfg, nil
}

// FindProjectRoot walks up from current directory to find ignite.toml or a
// Hardhat config file
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in an ignite project (%s not found)", IgniteFileName)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("IGNITE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("network", "localhost")
	v.SetDefault("project_root", projectRoot)

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})

	return v
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg.IgniteConfig)
}
