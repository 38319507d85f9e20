package modules

import "github.com/trebuchet-org/ignite/pkg/ignition"

// CompoundModule deploys the compounding stakable SNAK token
var CompoundModule = ignition.BuildModule("CompoundModule", func(m ignition.Builder) ignition.Results {
	compound := m.Contract("CompoundingStakableERC20Token", []any{"Snak", "SNAK", 1000000, 10000}, ignition.ContractOptions{})

	return ignition.Results{"compound": compound}
})
