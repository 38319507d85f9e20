package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/ignite/internal/domain/config"
)

// IgniteFileName is the project configuration file
const IgniteFileName = "ignite.toml"

// loadDotEnv loads .env files from the project root so that ignite.toml
// values can reference them
func loadDotEnv(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadIgniteConfig loads and parses ignite.toml. A missing file yields the
// default configuration.
func loadIgniteConfig(projectRoot string) (*config.IgniteConfig, error) {
	loadDotEnv(projectRoot)

	cfg := config.DefaultIgniteConfig()
	path := filepath.Join(projectRoot, IgniteFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	var raw config.IgniteConfig
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", IgniteFileName, err)
	}

	if raw.Paths.Artifacts != "" {
		cfg.Paths.Artifacts = os.ExpandEnv(raw.Paths.Artifacts)
	}
	if raw.Paths.Deployments != "" {
		cfg.Paths.Deployments = os.ExpandEnv(raw.Paths.Deployments)
	}

	// Networks declared in the file extend the built-in localhost entry
	for name, network := range raw.Networks {
		network.URL = os.ExpandEnv(network.URL)
		network.From = os.ExpandEnv(network.From)
		cfg.Networks[name] = network
	}

	return cfg, nil
}

// resolvePath makes a configured path absolute relative to the project root
func resolvePath(projectRoot, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectRoot, path)
}
