// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value. Keys absent from the directory fall back to
// environment variables so CI and containers work without a secrets mount.
//
// Supported key files: tavily-api-key, brave-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// envKeys maps secret file names to the environment variables consulted
// when the file is absent or empty.
var envKeys = map[string]string{
	"tavily-api-key": "TAVILY_API_KEY",
	"brave-api-key":  "BRAVE_API_KEY",
}

// Load reads all files in dir and returns a map of filename to trimmed contents,
// with environment fallbacks merged in for the known provider keys.
// A missing directory or missing files are not errors; Load still consults the
// environment and may return a populated map. Unreadable files produce a
// warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	secrets := make(map[string]string)

	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	for name, env := range envKeys {
		if secrets[name] != "" {
			continue
		}
		if value := strings.TrimSpace(os.Getenv(env)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}
