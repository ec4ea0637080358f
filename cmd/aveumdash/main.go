package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/b0ase/path402/apps/aveumdash/internal/app"
	"github.com/b0ase/path402/apps/aveumdash/internal/config"
	"github.com/b0ase/path402/apps/aveumdash/internal/mcpserver"
)

var Version = "0.1.0"

func main() {
	cfgPath := flag.String("config", "", "path to aveumdash.yaml")
	mcpMode := flag.Bool("mcp", false, "serve MCP tools on stdio instead of waiting for a signal")
	flag.Parse()

	// stdout belongs to the MCP transport in -mcp mode
	if !*mcpMode {
		printBanner()
	}

	cfg, err := config.Load(resolveConfigPath(*cfgPath))
	if err != nil {
		log.Fatalf("[main] Failed to load config: %v", err)
	}

	// Ensure data directory exists so a config can be dropped there
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		log.Fatalf("[main] Failed to create data dir %s: %v", cfg.DataDir, err)
	}

	log.Printf("[main] Data dir: %s", cfg.DataDir)

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("[main] Failed to create app: %v", err)
	}

	if err := a.Start(); err != nil {
		log.Fatalf("[main] Failed to start app: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *mcpMode {
		srv := mcpserver.New(Version, a.Client(), a.Dispatcher(), a.Document(), a.Formatter())
		log.Println("[main] Serving MCP on stdio")
		if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("[main] MCP server ended: %v", err)
		}
	} else {
		<-ctx.Done()
		log.Println("[main] Received signal, shutting down...")
	}

	a.Stop()
	log.Println("[main] Goodbye.")
}

// resolveConfigPath falls back to aveumdash.yaml in the data dir, which
// AVEUMDASH_DATA_DIR can move.
func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	defaults := config.DefaultConfig()
	if v := os.Getenv("AVEUMDASH_DATA_DIR"); v != "" {
		defaults.DataDir = v
	}
	return defaults.ConfigPath()
}

func printBanner() {
	// ANSI orange: \033[38;5;208m  Reset: \033[0m
	orange := "\033[38;5;208m"
	reset := "\033[0m"
	dim := "\033[2m"

	fmt.Printf(orange+`
       _
      /_\__ __ ___ _  _ _ __
     / _ \ V // -_) || | '  \
    /_/ \_\_/ \___|\_,_|_|_|_|
         ___          _    _                      _
        |   \ __ _ __| |_ | |__  ___  __ _ _ _ __| |
        | |) / _`+"`"+` (_-< ' \| '_ \/ _ \/ _`+"`"+` | '_/ _`+"`"+` |
        |___/\__,_/__/_||_|_.__/\___/\__,_|_| \__,_|
`+reset+`
  `+dim+`Aveum mining & auto-like dashboard  v%s`+reset+`
  `+orange+`━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━`+reset+`
`, Version)
}
