package abi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/ignite/internal/domain"
	"github.com/trebuchet-org/ignite/internal/domain/models"
)

// Link substitutes library addresses at the artifact's link references.
// Libraries are keyed by name or by "source.sol:Name".
func (e *Encoder) Link(artifact *models.Artifact, libraries map[string]common.Address) ([]byte, error) {
	code := strings.TrimPrefix(artifact.Bytecode, "0x")
	if code == "" {
		return nil, fmt.Errorf("%s has no creation bytecode", artifact.ContractName)
	}

	linked := []byte(code)
	var missing []string
	for source, libs := range artifact.LinkReferences {
		for name, refs := range libs {
			addr, ok := libraries[source+":"+name]
			if !ok {
				addr, ok = libraries[name]
			}
			if !ok {
				missing = append(missing, name)
				continue
			}

			hexAddr := strings.ToLower(strings.TrimPrefix(addr.Hex(), "0x"))
			for _, ref := range refs {
				start, end := ref.Start*2, (ref.Start+ref.Length)*2
				if start < 0 || end > len(linked) || ref.Length != common.AddressLength {
					return nil, fmt.Errorf("invalid link reference for %s in %s", name, artifact.ContractName)
				}
				copy(linked[start:end], hexAddr)
			}
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s needs %s", domain.ErrUnlinkedLibrary, artifact.ContractName, strings.Join(missing, ", "))
	}

	// Placeholders without link references cannot be resolved either
	if strings.Contains(string(linked), "__") {
		return nil, fmt.Errorf("%w: %s has unresolved placeholders", domain.ErrUnlinkedLibrary, artifact.ContractName)
	}

	return hexutil.Decode("0x" + string(linked))
}
