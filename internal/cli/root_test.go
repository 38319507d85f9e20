package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/ignite/internal/domain"
)

const tokenArtifact = `{
  "_format": "hh-sol-artifact-1",
  "contractName": "CompoundingStakableERC20Token",
  "sourceName": "contracts/CompoundingStakableERC20Token.sol",
  "abi": [{"type":"constructor","stateMutability":"nonpayable","inputs":[
    {"name":"name","type":"string"},
    {"name":"symbol","type":"string"},
    {"name":"supply","type":"uint256"},
    {"name":"rate","type":"uint256"}]}],
  "bytecode": "0x6080604052",
  "deployedBytecode": "0x",
  "linkReferences": {},
  "deployedLinkReferences": {}
}`

// setupProject creates a project with artifacts for the built-in modules
// and makes it the working directory
func setupProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(root, "ignite.toml"), []byte(`
[paths]
artifacts = "artifacts"
deployments = "ignition/deployments"
`), 0644))

	dir := filepath.Join(root, "artifacts", "contracts", "CompoundingStakableERC20Token.sol")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CompoundingStakableERC20Token.json"), []byte(tokenArtifact), 0644))

	t.Chdir(root)
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Commands(t *testing.T) {
	root := NewRootCmd()

	groups := map[string]string{
		"modules":     "main",
		"plan":        "main",
		"validate":    "main",
		"deploy":      "main",
		"status":      "deployment",
		"deployments": "deployment",
		"wipe":        "deployment",
		"version":     "",
	}
	for name, group := range groups {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
		assert.Equal(t, group, cmd.GroupID, name)
	}

	for _, flag := range []string{"debug", "non-interactive", "network", "json"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ignite version")
}

func TestPlanCmd_JSON(t *testing.T) {
	setupProject(t)

	out, err := execute(t, "plan", "CompoundModule", "--json")
	require.NoError(t, err)

	var plan struct {
		Module  string     `json:"module"`
		Batches [][]string `json:"batches"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, "CompoundModule", plan.Module)
	assert.Equal(t, [][]string{{"CompoundModule#CompoundingStakableERC20Token"}}, plan.Batches)
}

func TestPlanCmd_UnknownModule(t *testing.T) {
	setupProject(t)

	_, err := execute(t, "plan", "Missing")
	assert.ErrorIs(t, err, domain.ErrModuleNotFound)
}

func TestNetworkResolvedOnDemand(t *testing.T) {
	setupProject(t)

	_, err := execute(t, "plan", "CompoundModule", "--network", "nowhere")
	require.NoError(t, err)

	_, err = execute(t, "modules", "--network", "nowhere")
	require.NoError(t, err)

	// An explicit deployment id needs no network
	_, err = execute(t, "status", "chain-1", "--network", "nowhere")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = execute(t, "deploy", "CompoundModule", "--dry-run", "--network", "nowhere")
	assert.ErrorContains(t, err, "failed to resolve network nowhere")

	_, err = execute(t, "status", "--network", "nowhere")
	assert.ErrorContains(t, err, "failed to resolve network nowhere")
}

func TestValidateCmd(t *testing.T) {
	setupProject(t)

	out, err := execute(t, "validate", "CompoundModule")
	require.NoError(t, err)
	assert.Contains(t, out, "CompoundModule is valid")

	// SnakeEggNFT has no artifact in this project
	_, err = execute(t, "validate", "SnekModule")
	assert.Error(t, err)
}

func TestDeployCmd_DryRun(t *testing.T) {
	root := setupProject(t)

	out, err := execute(t, "deploy", "CompoundModule", "--dry-run", "--json")
	require.NoError(t, err)

	var result struct {
		DeploymentID string            `json:"deploymentId"`
		Success      bool              `json:"success"`
		DryRun       bool              `json:"dryRun"`
		Deployed     []string          `json:"deployed"`
		Results      map[string]string `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Success)
	assert.True(t, result.DryRun)
	assert.Equal(t, "chain-31337", result.DeploymentID)
	assert.Equal(t, []string{"CompoundModule#CompoundingStakableERC20Token"}, result.Deployed)
	// First creation of the default local account
	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", result.Results["compound"])

	assert.NoDirExists(t, filepath.Join(root, "ignition", "deployments", "chain-31337"))
}

func TestStatusCmd_Missing(t *testing.T) {
	setupProject(t)

	_, err := execute(t, "status", "chain-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeploymentsCmd_Empty(t *testing.T) {
	setupProject(t)

	out, err := execute(t, "deployments", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestWipeCmd_NonInteractiveRequiresFutures(t *testing.T) {
	setupProject(t)

	_, err := execute(t, "wipe", "chain-31337", "--non-interactive")
	assert.Error(t, err)
}
