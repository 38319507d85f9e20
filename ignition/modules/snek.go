package modules

import "github.com/trebuchet-org/ignite/pkg/ignition"

// SnekModule deploys the SnakeEgg NFT collection
var SnekModule = ignition.BuildModule("SnekModule", func(m ignition.Builder) ignition.Results {
	snek := m.Contract("SnakeEggNFT", []any{}, ignition.ContractOptions{})

	return ignition.Results{"snek": snek}
})
