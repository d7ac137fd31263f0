package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// fileFormat mirrors the recognized keys of a batch_resolve.toml file. Unknown keys are silently
// ignored by toml.Decode's default behavior (we don't call DisallowUnknownFields), matching
// spec.md's "Unknown keys are ignored" requirement.
type fileFormat struct {
	DNS              []string `toml:"dns"`
	Retry            *uint32  `toml:"retry"`
	QueriesPerSecond *uint32  `toml:"queries_per_second"`
}

// ParseFile decodes a TOML config file at path into a Snapshot, starting from Default() values for
// any key the file omits.
func ParseFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	return ParseBytes(data)
}

// ParseBytes decodes raw TOML content into a Snapshot. Exported separately from ParseFile so tests
// (and callers embedding config inline) don't need a filesystem.
func ParseBytes(data []byte) (*Snapshot, error) {
	var raw fileFormat
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("config: malformed toml: %w", err)
	}
	_ = meta // Undecoded/unknown keys are intentionally not inspected - see fileFormat comment

	def := Default()

	servers := def.DNSServers()
	if len(raw.DNS) > 0 {
		servers = raw.DNS
	}

	qps := def.QPS()
	if raw.QueriesPerSecond != nil {
		qps = *raw.QueriesPerSecond
	}

	retries := def.TimeoutRetries()
	if raw.Retry != nil {
		retries = *raw.Retry
	}

	return New(servers, qps, retries)
}

// FindConfigFile implements the search-path rule of spec.md §6: if explicit is non-empty it is
// used verbatim (and must exist); otherwise the first of ./batch_resolve.toml,
// $HOME/.config/batch_resolve.toml, /etc/batch_resolve.toml that exists is returned. Returns "" ,
// nil if explicit is empty and nothing is found - callers should then fall back to Default().
func FindConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config: %s: %w", explicit, err)
		}
		return explicit, nil
	}

	for _, dir := range consts.ConfigSearchDir {
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				continue
			}
			dir = filepath.Join(home, ".config")
		}
		candidate := filepath.Join(dir, consts.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", nil
}
