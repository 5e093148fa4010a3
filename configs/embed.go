// Package configs embeds the bridge's fallback configuration, used when no
// config file is supplied on the command line or via the environment.
package configs

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed *.yaml
var embedded embed.FS

// Load returns an embedded YAML config by filename.
func Load(name string) ([]byte, error) {
	data, err := fs.ReadFile(embedded, name)
	if err != nil {
		return nil, fmt.Errorf("read embedded config %q: %w", name, err)
	}
	return data, nil
}

// Default returns the built-in default configuration.
func Default() ([]byte, error) {
	return Load("default.yaml")
}
