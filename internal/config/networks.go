package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend selects the chain client used for a network
type Backend string

const (
	BackendGraphQL Backend = "graphql"
	BackendSolana  Backend = "solana"
)

// Network describes one chain the accounts can live on
type Network struct {
	Name         string        `yaml:"name"`
	Backend      Backend       `yaml:"backend"`
	Endpoint     string        `yaml:"endpoint"`
	Faucet       Faucet        `yaml:"faucet"`
	Explorer     Explorer      `yaml:"explorer"`
	FeePerTx     uint64        `yaml:"feePerTx"` // smallest unit
	Decimals     int           `yaml:"decimals"`
	SlotDuration time.Duration `yaml:"slotDuration"`
}

// Faucet is where funding is requested. An empty URL on a solana backend means requestAirdrop.
type Faucet struct {
	URL     string `yaml:"url"`
	Network string `yaml:"network"`
	Amount  uint64 `yaml:"amount"` // airdrop size in smallest units
}

// Explorer holds block explorer URL prefixes
type Explorer struct {
	Wallet      string `yaml:"wallet"`
	Transaction string `yaml:"transaction"`
	Suffix      string `yaml:"suffix"`
}

// WalletURL returns the explorer URL of an address
func (n Network) WalletURL(address string) string {
	return n.Explorer.Wallet + address + n.Explorer.Suffix
}

// TransactionURL returns the explorer URL of a transaction
func (n Network) TransactionURL(hash string) string {
	return n.Explorer.Transaction + hash + n.Explorer.Suffix
}

// FaucetNetwork is the network name recorded on faucet attempts
func (n Network) FaucetNetwork() string {
	if n.Faucet.Network != "" {
		return n.Faucet.Network
	}
	return n.Name
}

func builtinNetworks() map[string]Network {
	return map[string]Network{
		"solana-devnet": {
			Name:     "solana-devnet",
			Backend:  BackendSolana,
			Endpoint: "https://api.devnet.solana.com",
			Faucet:   Faucet{Network: "devnet", Amount: 1_000_000_000},
			Explorer: Explorer{
				Wallet:      "https://explorer.solana.com/address/",
				Transaction: "https://explorer.solana.com/tx/",
				Suffix:      "?cluster=devnet",
			},
			FeePerTx:     5000,
			Decimals:     9,
			SlotDuration: 400 * time.Millisecond,
		},
		"solana-testnet": {
			Name:     "solana-testnet",
			Backend:  BackendSolana,
			Endpoint: "https://api.testnet.solana.com",
			Faucet:   Faucet{Network: "testnet", Amount: 1_000_000_000},
			Explorer: Explorer{
				Wallet:      "https://explorer.solana.com/address/",
				Transaction: "https://explorer.solana.com/tx/",
				Suffix:      "?cluster=testnet",
			},
			FeePerTx:     5000,
			Decimals:     9,
			SlotDuration: 400 * time.Millisecond,
		},
		"local": {
			Name:     "local",
			Backend:  BackendGraphQL,
			Endpoint: "http://localhost:8080/graphql",
			Faucet:   Faucet{URL: "http://localhost:8080/faucet", Network: "local"},
			Explorer: Explorer{
				Wallet:      "http://localhost:8080/wallet/",
				Transaction: "http://localhost:8080/transaction/",
			},
			FeePerTx:     100_000_000,
			Decimals:     9,
			SlotDuration: 3 * time.Minute,
		},
	}
}

type networksFile struct {
	Networks []Network `yaml:"networks"`
}

// LoadNetworks returns the built-in profiles, overridden or extended by the YAML file at path.
func LoadNetworks(path string) (map[string]Network, error) {
	networks := builtinNetworks()
	if path == "" {
		return networks, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read networks file: %w", err)
	}

	var file networksFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse networks file: %w", err)
	}

	for i, n := range file.Networks {
		if n.Name == "" {
			return nil, fmt.Errorf("networks[%d]: name is required", i)
		}
		switch n.Backend {
		case BackendGraphQL, BackendSolana:
		default:
			return nil, fmt.Errorf("network %s: unknown backend %q", n.Name, n.Backend)
		}
		if n.Endpoint == "" {
			return nil, fmt.Errorf("network %s: endpoint is required", n.Name)
		}
		if n.FeePerTx == 0 {
			return nil, fmt.Errorf("network %s: feePerTx must be positive", n.Name)
		}
		if n.SlotDuration <= 0 {
			n.SlotDuration = 3 * time.Minute
		}
		networks[n.Name] = n
	}

	return networks, nil
}

// Names returns the sorted profile names
func Names(networks map[string]Network) []string {
	names := make([]string, 0, len(networks))
	for name := range networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
