package config

// IgniteConfig represents the ignite.toml project file
type IgniteConfig struct {
	Paths    PathsConfig              `toml:"paths"`
	Networks map[string]NetworkConfig `toml:"networks"`
}

// PathsConfig configures where artifacts and deployment journals live
type PathsConfig struct {
	Artifacts   string `toml:"artifacts,omitempty"`
	Deployments string `toml:"deployments,omitempty"`
}

// NetworkConfig is a network entry of ignite.toml
type NetworkConfig struct {
	URL           string `toml:"url"`
	ChainID       uint64 `toml:"chain_id,omitempty"`
	From          string `toml:"from,omitempty"`
	Confirmations uint64 `toml:"confirmations,omitempty"`
}

const (
	DefaultArtifactsDir   = "artifacts"
	DefaultDeploymentsDir = "ignition/deployments"
)

// DefaultIgniteConfig returns the configuration used when ignite.toml has no entries
func DefaultIgniteConfig() *IgniteConfig {
	return &IgniteConfig{
		Paths: PathsConfig{
			Artifacts:   DefaultArtifactsDir,
			Deployments: DefaultDeploymentsDir,
		},
		Networks: map[string]NetworkConfig{
			"localhost": {URL: "http://127.0.0.1:8545", ChainID: 31337},
		},
	}
}
