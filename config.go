package fledger

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

type Config struct {
	Ledger   LedgerConfig   `toml:"ledger"`
	Producer ProducerConfig `toml:"producer"`
}

type LedgerConfig struct {
	ClientID  string `toml:"client_id"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	BaseTopic string `toml:"base_topic"`
}

type ProducerConfig struct {
	ClientID  string `toml:"client_id"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	BaseTopic string `toml:"base_topic"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	tree, err := toml.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	var cfg Config
	if err := tree.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}
