package main

import (
	"log"
	"os"

	"github.com/harrisonrobin/reservas/pkg/config"
)

func main() {
	// Priority: Flag > Config > Default
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: could not load config, using defaults: %v", err)
		cfg = config.Default()
	}

	app := NewApp(cfg, os.Stdout)
	if err := SetupCommands(app).Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
