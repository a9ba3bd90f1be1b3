package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"versekeep/internal/app"
)

func main() {
	cfg := app.DefaultConfig()
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "state directory (default ~/.local/share/versekeep)")
	flag.StringVar(&cfg.SeedDir, "seed-dir", cfg.SeedDir, "seed verse directory (default <data-dir>/verses)")
	flag.StringVar(&cfg.LogPath, "log", cfg.LogPath, "JSON event log path (empty disables)")
	flag.StringVar(&cfg.Theme, "theme", cfg.Theme, "color theme variant")
	flag.BoolVar(&cfg.ASCIIOnly, "ascii", cfg.ASCIIOnly, "avoid non-ASCII glyphs")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "verbose UI logging")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "versekeep:", err)
		os.Exit(2)
	}

	a, err := app.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "versekeep:", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "versekeep:", err)
		os.Exit(1)
	}
}
