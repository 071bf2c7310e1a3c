// Package project locates the bot project folder and reports what is in it.
package project

import (
	"fmt"
	"os"
	"path/filepath"
)

// Root markers: a bot entry point or a per-project shipctl config.
const (
	EntryPointFile = "bot.py"
	LocalConfig    = "shipctl.yaml"
)

// FindRoot finds the project root by walking up from the working directory.
func FindRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindRootFrom(cwd)
}

// FindRootFrom walks up from start looking for bot.py or shipctl.yaml.
func FindRootFrom(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		for _, marker := range []string{EntryPointFile, LocalConfig} {
			if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && !info.IsDir() {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find project root (looked for %s or %s)", EntryPointFile, LocalConfig)
}
