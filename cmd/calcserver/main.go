// Package main implements the calculator MCP server. It exposes the MCP
// JSON-RPC tool surface and REST endpoints over HTTP and persists the
// calculation history to a CSV file.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mcplab/calcserver/internal/app/runtime"
)

func main() {
	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	if *configPath == "" {
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			*configPath = v
		}
	}

	application, err := runtime.NewApplication(*configPath)
	if err != nil {
		log.Fatalf("Failed to initialise application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	if err := application.Shutdown(context.Background()); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
