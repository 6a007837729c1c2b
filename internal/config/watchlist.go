package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Watchlist is a symbol list loaded from YAML:
//
//	symbols:
//	  - AMD
//	  - ziext
type Watchlist struct {
	Symbols []string `yaml:"symbols"`
}

// LoadWatchlist reads a YAML symbol list. Symbols are trimmed and
// upper-cased; empty entries are dropped.
func LoadWatchlist(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read watchlist: %w", err)
	}

	var wl Watchlist
	if err := yaml.Unmarshal(data, &wl); err != nil {
		return nil, fmt.Errorf("failed to parse watchlist %s: %w", path, err)
	}

	symbols := make([]string, 0, len(wl.Symbols))
	for _, s := range wl.Symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols, nil
}
