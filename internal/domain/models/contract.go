package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// LinkReference is a placeholder position inside unlinked bytecode
type LinkReference struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// Artifact represents a Hardhat compilation artifact
type Artifact struct {
	Format         string                                `json:"_format"`
	ContractName   string                                `json:"contractName"`
	SourceName     string                                `json:"sourceName"`
	ABI            json.RawMessage                       `json:"abi"`
	Bytecode       string                                `json:"bytecode"`
	LinkReferences map[string]map[string][]LinkReference `json:"linkReferences"`

	// Path is the artifact file the record was read from
	Path string `json:"-"`

	parsedABI *abi.ABI
}

// FullyQualifiedName returns "source.sol:Name"
func (a *Artifact) FullyQualifiedName() string {
	return fmt.Sprintf("%s:%s", a.SourceName, a.ContractName)
}

// ParsedABI parses and caches the artifact ABI
func (a *Artifact) ParsedABI() (*abi.ABI, error) {
	if a.parsedABI != nil {
		return a.parsedABI, nil
	}
	if len(a.ABI) == 0 {
		return nil, fmt.Errorf("artifact %s has no ABI", a.ContractName)
	}
	parsed, err := abi.JSON(strings.NewReader(string(a.ABI)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", a.ContractName, err)
	}
	a.parsedABI = &parsed
	return a.parsedABI, nil
}

// Libraries returns the names of the libraries the bytecode must be linked with
func (a *Artifact) Libraries() []string {
	var names []string
	for _, libs := range a.LinkReferences {
		for name := range libs {
			names = append(names, name)
		}
	}
	return names
}

// IsDeployable reports whether the artifact has creation bytecode
func (a *Artifact) IsDeployable() bool {
	code := strings.TrimPrefix(a.Bytecode, "0x")
	return code != ""
}
