package main

import (
	"fmt"
	"log"

	"github.com/appraisal-comps/internal/config"
	"github.com/appraisal-comps/internal/web"
)

func main() {
	config.LoadEnv()

	fmt.Println("=== Appraisal Comp Review Interface ===")

	cfg := web.ConfigFromEnv()
	fmt.Printf("Server: http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	if cfg.Features.UseDatabase {
		fmt.Printf("Database: %s\n", config.GetEnv("PGDATABASE", "appraisal_comps"))
	} else {
		fmt.Printf("Scored rows file: %s\n", cfg.Paths.ScoredCSV)
	}

	server, err := web.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
