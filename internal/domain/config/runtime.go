package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot    string
	ArtifactsDir   string
	DeploymentsDir string

	// Context settings
	NetworkName string   // selected network, resolved on demand
	Network     *Network // nil until resolved

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Deploy settings (only populated for relevant commands)
	DeploymentID   string
	ParametersFile string
	DryRun         bool
	Reset          bool

	// Resolved configurations
	IgniteConfig *IgniteConfig
}

// Network represents network configuration
type Network struct {
	Name          string `json:"name"`
	ChainID       uint64 `json:"chainId"`
	RPCURL        string `json:"rpcUrl"`
	From          string `json:"from,omitempty"`
	Confirmations uint64 `json:"confirmations,omitempty"`
}
