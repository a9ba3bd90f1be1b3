package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"versekeep/internal/ui"
)

// Config controls runtime behavior for the TUI app.
type Config struct {
	LogPath   string
	DataDir   string
	SeedDir   string
	Theme     string
	ASCIIOnly bool
	Debug     bool
}

func DefaultConfig() Config {
	return Config{
		Theme: "deepsea",
	}
}

func (c *Config) Validate() error {
	if c.Theme == "" {
		c.Theme = "deepsea"
	}
	valid := false
	for _, v := range ui.ThemeVariants() {
		if v == c.Theme {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid theme variant %q", c.Theme)
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "versekeep")
	}
	if c.SeedDir == "" {
		c.SeedDir = filepath.Join(c.DataDir, "verses")
	}
	return nil
}
