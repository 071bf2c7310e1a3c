// Package envfile loads a project's .env file for the tools shipctl wraps
// (the deployment CLI reads its token from the environment).
package envfile

import (
	"errors"
	"io/fs"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Parse parses a shell-style env file and returns key-value pairs.
// A missing file yields an empty map. godotenv handles quoting, comments
// and `export` prefixes.
func Parse(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	envVars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	return envVars, nil
}

// Merge overlays vars onto base, an os.Environ()-style slice. Values from
// vars win; keys are appended in sorted order so the result is stable.
func Merge(base []string, vars map[string]string) []string {
	if len(vars) == 0 {
		return base
	}

	merged := make([]string, 0, len(base)+len(vars))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, override := vars[key]; override {
			continue
		}
		merged = append(merged, kv)
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		merged = append(merged, k+"="+vars[k])
	}
	return merged
}

// Keys returns the sorted variable names in vars. Used for logging which
// variables were loaded without exposing their values.
func Keys(vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
